package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errTokenType = errors.New("unexpected token type")

// Claims are carried by both token kinds. Profile fields are only set on
// access tokens.
type Claims struct {
	UserID    uint   `json:"uid"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is what a login or refresh hands back.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenConfig holds signing secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// SessionIssuer mints, validates, rotates and revokes token pairs. Each user
// has one live refresh token: issuing a new pair replaces the stored one.
type SessionIssuer struct {
	users     UserStore
	blacklist Blacklist
	cfg       TokenConfig
	inflight  singleflight.Group
	logger    *log.Logger
	now       func() time.Time
}

func NewSessionIssuer(users UserStore, blacklist Blacklist, cfg TokenConfig, logger *log.Logger) *SessionIssuer {
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SessionIssuer{users: users, blacklist: blacklist, cfg: cfg, logger: logger, now: time.Now}
}

// IssuePair signs a new pair for user and stores the refresh token.
func (s *SessionIssuer) IssuePair(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.cfg.AccessTTL)
	refreshExp := now.Add(s.cfg.RefreshTTL)

	access, err := s.sign(&Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}, s.cfg.AccessSecret)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("sign access token: %w", err))
	}

	refresh, err := s.sign(&Claims{
		UserID:    user.ID,
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	}, s.cfg.RefreshSecret)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("sign refresh token: %w", err))
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, apperr.Internal(fmt.Errorf("store refresh token: %w", err))
	}
	user.RefreshToken = refresh

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ValidateAccess returns the user an access token belongs to.
func (s *SessionIssuer) ValidateAccess(ctx context.Context, token string) (*model.User, *Claims, error) {
	if token == "" {
		return nil, nil, apperr.Unauthorized("Unauthorized request")
	}
	claims, err := s.parse(token, s.cfg.AccessSecret, tokenTypeAccess)
	if err != nil {
		return nil, nil, apperr.Unauthorized("Invalid access token").Wrap(err)
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, nil, apperr.Internal(fmt.Errorf("check blacklist: %w", err))
	}
	if revoked {
		return nil, nil, apperr.Unauthorized("Invalid access token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperr.Unauthorized("Invalid access token")
	}
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return user, claims, nil
}

// Refresh exchanges a live refresh token for a new pair. Concurrent calls
// with the same token share one rotation.
func (s *SessionIssuer) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}

	v, err, shared := s.inflight.Do(refreshToken, func() (any, error) {
		return s.rotate(context.WithoutCancel(ctx), refreshToken)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("refresh collapsed with in-flight rotation")
	}
	return v.(*TokenPair), nil
}

func (s *SessionIssuer) rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, s.cfg.RefreshSecret, tokenTypeRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token").Wrap(err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if user.RefreshToken != refreshToken {
		s.logger.Warn("stale refresh token presented", "user_id", user.ID)
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	return s.IssuePair(ctx, user)
}

// Revoke ends the user's session: the stored refresh token is cleared and
// the access token in claims stops validating.
func (s *SessionIssuer) Revoke(ctx context.Context, userID uint, claims *Claims) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal(err)
	}
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return apperr.Internal(fmt.Errorf("blacklist access token: %w", err))
	}
	return nil
}

// AccessTTL is the lifetime of access tokens, used for cookie max-age.
func (s *SessionIssuer) AccessTTL() time.Duration { return s.cfg.AccessTTL }

// RefreshTTL is the lifetime of refresh tokens.
func (s *SessionIssuer) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

func (s *SessionIssuer) sign(claims *Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *SessionIssuer) parse(token, secret, want string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != want {
		return nil, errTokenType
	}
	return claims, nil
}
