package repository

import (
	"context"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a playlist. A duplicate name for the same owner yields ErrConflict.
func (r *PlaylistRepository) Create(ctx context.Context, p *model.Playlist) error {
	if p.VideoIDs == nil {
		p.VideoIDs = []int64{}
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PlaylistRepository) FindByID(ctx context.Context, id uint) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// NameTaken reports whether ownerID already has a playlist called name,
// ignoring exceptID.
func (r *PlaylistRepository) NameTaken(ctx context.Context, ownerID uint, name string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("owner_id = ? AND name = ? AND id <> ?", ownerID, name, exceptID).
		Count(&count).Error
	return count > 0, err
}

// UpdateDetails writes name and description.
func (r *PlaylistRepository) UpdateDetails(ctx context.Context, p *model.Playlist) error {
	return translate(r.db.WithContext(ctx).Model(p).
		Updates(map[string]any{"name": p.Name, "description": p.Description}).Error)
}

func (r *PlaylistRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Playlist{}, id).Error
}

// ListByOwner returns a user's playlists, newest first.
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error
	return playlists, err
}

// CountByOwner counts a user's playlists.
func (r *PlaylistRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// AddVideo appends videoID unless it is already present. It reports whether
// the playlist changed.
func (r *PlaylistRepository) AddVideo(ctx context.Context, id, videoID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("id = ? AND NOT (? = ANY(video_ids))", id, videoID).
		Update("video_ids", gorm.Expr("array_append(video_ids, ?)", videoID))
	return res.RowsAffected > 0, res.Error
}

// RemoveVideo drops videoID. It reports whether the playlist changed.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, id, videoID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("id = ? AND ? = ANY(video_ids)", id, videoID).
		Update("video_ids", gorm.Expr("array_remove(video_ids, ?)", videoID))
	return res.RowsAffected > 0, res.Error
}
