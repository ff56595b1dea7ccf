package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
	"github.com/user/vidtube/internal/storage"
)

const minPasswordLength = 6

// RegisterInput is the text part of a registration form.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// LoginInput identifies a user by email or username.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

// UserProfile is a user with their content counts.
type UserProfile struct {
	*model.OwnerSummary
	CoverImage    string `json:"coverImage"`
	VideoCount    int64  `json:"videoCount"`
	PlaylistCount int64  `json:"playlistCount"`
}

type UserService struct {
	users     UserStore
	videos    VideoStore
	playlists PlaylistStore
	sessions  *SessionIssuer
	media     *MediaService
	owners    *OwnerDirectory
}

func NewUserService(users UserStore, videos VideoStore, playlists PlaylistStore, sessions *SessionIssuer, media *MediaService, owners *OwnerDirectory) *UserService {
	return &UserService{users: users, videos: videos, playlists: playlists, sessions: sessions, media: media, owners: owners}
}

// Register creates an account. Staged files are always removed.
func (s *UserService) Register(ctx context.Context, in RegisterInput, avatarPath, coverPath string) (*model.User, error) {
	defer s.media.Remove(avatarPath)
	defer s.media.Remove(coverPath)

	user := &model.User{Username: in.Username, Email: in.Email, FullName: in.FullName}
	user.Normalize()
	if user.Username == "" || user.Email == "" || user.FullName == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.BadRequest("All fields are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.BadRequest("Password must be at least %d characters", minPasswordLength)
	}

	taken, err := s.users.Taken(ctx, user.Username, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict("User with email or username already exists")
	}
	if avatarPath == "" {
		return nil, apperr.BadRequest("Avatar file is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user.PasswordHash = string(hash)

	user.Avatar = "pending"
	if err := model.Validate(user); err != nil {
		return nil, apperr.BadRequest("Invalid registration details").Wrap(err)
	}

	user.Avatar, err = s.media.Ingest(ctx, avatarPath, storage.RoleAvatar)
	if err != nil {
		return nil, err
	}
	if coverPath != "" {
		user.CoverImage, err = s.media.Ingest(ctx, coverPath, storage.RoleCover)
		if err != nil {
			s.media.Discard(ctx, user.Avatar)
			return nil, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.media.Discard(ctx, user.Avatar, user.CoverImage)
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Conflict("User with email or username already exists")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// Login checks credentials and opens a session, replacing any earlier one.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*model.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if email == "" && username == "" {
		return nil, nil, apperr.BadRequest("Username or email is required")
	}

	user, err := s.users.FindByLogin(ctx, email, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperr.NotFound("User does not exist")
	}
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, nil, apperr.Unauthorized("Invalid user credentials")
	}

	pair, err := s.sessions.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the caller's session.
func (s *UserService) Logout(ctx context.Context, userID uint, claims *Claims) error {
	return s.sessions.Revoke(ctx, userID, claims)
}

// Refresh rotates a refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.sessions.Refresh(ctx, refreshToken)
}

// Current returns the signed-in user.
func (s *UserService) Current(ctx context.Context, userID uint) (*model.User, error) {
	return s.find(ctx, userID)
}

// ChangePassword replaces the password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperr.BadRequest("Old and new password are required")
	}
	if len(newPassword) < minPasswordLength {
		return apperr.BadRequest("Password must be at least %d characters", minPasswordLength)
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return apperr.BadRequest("Invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// UpdateAccount changes display name and email.
func (s *UserService) UpdateAccount(ctx context.Context, userID uint, fullName, email string) (*model.User, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	user.Email = email
	user.Normalize()
	if user.FullName == "" || user.Email == "" {
		return nil, apperr.BadRequest("All fields are required")
	}
	if err := model.Validate(user); err != nil {
		return nil, apperr.BadRequest("Invalid account details").Wrap(err)
	}

	taken, err := s.users.EmailTakenByOther(ctx, userID, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Email is already in use")
	}

	if err := s.users.UpdateAccount(ctx, userID, user.FullName, user.Email); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Conflict("Email is already in use")
		}
		return nil, apperr.Internal(err)
	}
	s.owners.Invalidate(userID)
	return user, nil
}

// UpdateAvatar swaps the avatar and deletes the previous asset.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, path string) (*model.User, error) {
	return s.replaceImage(ctx, userID, path, storage.RoleAvatar)
}

// UpdateCoverImage swaps the cover image and deletes the previous asset.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, path string) (*model.User, error) {
	return s.replaceImage(ctx, userID, path, storage.RoleCover)
}

func (s *UserService) replaceImage(ctx context.Context, userID uint, path string, role storage.Role) (*model.User, error) {
	defer s.media.Remove(path)
	if path == "" {
		if role == storage.RoleAvatar {
			return nil, apperr.BadRequest("Avatar file is missing")
		}
		return nil, apperr.BadRequest("Cover image file is missing")
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.Ingest(ctx, path, role)
	if err != nil {
		return nil, err
	}

	var old string
	if role == storage.RoleAvatar {
		old, user.Avatar = user.Avatar, url
		err = s.users.UpdateAvatar(ctx, userID, url)
	} else {
		old, user.CoverImage = user.CoverImage, url
		err = s.users.UpdateCoverImage(ctx, userID, url)
	}
	if err != nil {
		s.media.Discard(ctx, url)
		return nil, apperr.Internal(err)
	}

	s.media.Discard(ctx, old)
	s.owners.Invalidate(userID)
	return user, nil
}

// Profile returns a user's public profile with content counts.
func (s *UserService) Profile(ctx context.Context, userID uint) (*UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	videos, err := s.videos.CountByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	playlists, err := s.playlists.CountByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &UserProfile{
		OwnerSummary:  user.Summary(),
		CoverImage:    user.CoverImage,
		VideoCount:    videos,
		PlaylistCount: playlists,
	}, nil
}

func (s *UserService) find(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}
