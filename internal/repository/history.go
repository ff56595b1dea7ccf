package repository

import (
	"context"
	"time"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert records a watch. Watching the same video again moves it to the head
// of the history instead of adding a second entry.
func (r *HistoryRepository) Upsert(ctx context.Context, userID, videoID uint, at time.Time) error {
	entry := &model.WatchEntry{UserID: userID, VideoID: videoID, WatchedAt: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(entry).Error
}

// Trim drops everything past the newest keep entries.
func (r *HistoryRepository) Trim(ctx context.Context, userID uint, keep int) error {
	newest := r.db.Model(&model.WatchEntry{}).Select("id").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(keep)
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id NOT IN (?)", userID, newest).
		Delete(&model.WatchEntry{}).Error
}

// ListByUser returns the user's history, newest first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*model.WatchEntry, error) {
	var entries []*model.WatchEntry
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Delete removes one video from the history, ErrNotFound when absent.
func (r *HistoryRepository) Delete(ctx context.Context, userID, videoID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&model.WatchEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
