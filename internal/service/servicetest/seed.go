package servicetest

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/vidtube/internal/model"
)

// SeedUser inserts a user whose password is password.
func (db *DB) SeedUser(t testing.TB, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "User " + username,
		Avatar:       fmt.Sprintf("https://media.test/avatar/%s.png", username),
		PasswordHash: string(hash),
	}
	if err := db.Stores().Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedVideo inserts a video owned by ownerID.
func (db *DB) SeedVideo(t testing.TB, ownerID uint, title string, published bool) *model.Video {
	t.Helper()
	v := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: title + " description",
		VideoFile:   "https://media.test/video/" + title + ".mp4",
		Thumbnail:   "https://media.test/thumbnail/" + title + ".jpg",
		Duration:    60,
		IsPublished: published,
	}
	if err := db.Stores().Videos.Create(context.Background(), v); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return v
}
