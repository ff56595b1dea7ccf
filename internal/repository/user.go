package repository

import (
	"context"
	"errors"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Duplicate username or email yields ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID looks a user up by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByUsername looks a channel up by its handle.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByLogin matches the email first and falls back to the username;
// empty values are ignored.
func (r *UserRepository) FindByLogin(ctx context.Context, email, username string) (*model.User, error) {
	if email != "" {
		user, err := r.findOne(ctx, "email = ?", email)
		if username == "" || !errors.Is(err, ErrNotFound) {
			return user, err
		}
	}
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Taken reports whether the username or email is already registered.
func (r *UserRepository) Taken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther reports whether email belongs to a user other than id.
func (r *UserRepository) EmailTakenByOther(ctx context.Context, id uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	return count > 0, err
}

// FindByIDs loads users by id in no particular order.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.User, error) {
	var users []*model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// SetRefreshToken replaces the stored refresh token; empty clears it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id uint, token string) error {
	return r.updateColumn(ctx, id, "refresh_token", token)
}

// UpdatePassword stores a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.updateColumn(ctx, id, "password_hash", hash)
}

// UpdateAvatar stores a new avatar URL.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id uint, url string) error {
	return r.updateColumn(ctx, id, "avatar", url)
}

// UpdateCoverImage stores a new cover image URL.
func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uint, url string) error {
	return r.updateColumn(ctx, id, "cover_image", url)
}

// UpdateAccount changes the display name and email.
func (r *UserRepository) UpdateAccount(ctx context.Context, id uint, fullName, email string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"full_name": fullName, "email": email})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
