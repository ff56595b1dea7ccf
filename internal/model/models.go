package model

import (
	"strings"
	"time"
)

// User is a registered account. A user is also a channel.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:30;uniqueIndex;not null" validate:"required,min=3,max=30,username"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null" validate:"required,email"`
	FullName     string    `json:"fullName" gorm:"size:120;not null" validate:"required,max=120"`
	Avatar       string    `json:"avatar" gorm:"not null" validate:"required"`
	CoverImage   string    `json:"coverImage"`
	PasswordHash string    `json:"-" gorm:"not null" validate:"required"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Normalize lowercases the identifiers users log in with.
func (u *User) Normalize() {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FullName = strings.TrimSpace(u.FullName)
}

// Summary returns the public projection of the user.
func (u *User) Summary() *OwnerSummary {
	return &OwnerSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// OwnerSummary is the public face of a user embedded in other resources.
type OwnerSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// WatchEntry is one element of a user's watch history. The history is the
// user's entries ordered by WatchedAt descending.
type WatchEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_watch_user_video"`
	VideoID   uint      `json:"videoId" gorm:"not null;uniqueIndex:idx_watch_user_video;index"`
	WatchedAt time.Time `json:"watchedAt" gorm:"not null;index"`
}

// TableName keeps the table name stable.
func (WatchEntry) TableName() string {
	return "watch_history"
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Video{},
		&Subscription{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Playlist{},
		&WatchEntry{},
	}
}
