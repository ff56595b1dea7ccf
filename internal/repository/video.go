package repository

import (
	"context"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// videoSortColumns maps public sort keys to columns.
var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

// VideoFilter selects videos for listing.
type VideoFilter struct {
	Query    string
	OwnerID  uint
	ViewerID uint
	SortBy   string
	Desc     bool
	Page     Page
}

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, v *model.Video) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *VideoRepository) FindByID(ctx context.Context, id uint) (*model.Video, error) {
	var v model.Video
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// FindByIDs loads videos by id in no particular order.
func (r *VideoRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.Video, error) {
	var videos []*model.Video
	if len(ids) == 0 {
		return videos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// Exists reports whether a video with id exists.
func (r *VideoRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateDetails writes title, description, thumbnail and publish state.
func (r *VideoRepository) UpdateDetails(ctx context.Context, v *model.Video) error {
	return translate(r.db.WithContext(ctx).Model(v).
		Select("title", "description", "thumbnail", "is_published").
		Updates(v).Error)
}

// IncrementViews bumps the view counter atomically.
func (r *VideoRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of videos and the total match count. Unpublished
// videos are only included for their owner.
func (r *VideoRepository) List(ctx context.Context, f VideoFilter) ([]*model.Video, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Video{})
	if f.ViewerID != 0 {
		q = q.Where("is_published = ? OR owner_id = ?", true, f.ViewerID)
	} else {
		q = q.Where("is_published = ?", true)
	}
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Query != "" {
		q = q.Where("title ILIKE ?", "%"+escapeLike(f.Query)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := videoSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	var videos []*model.Video
	err := f.Page.apply(q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.Desc})).
		Order("id DESC").
		Find(&videos).Error
	return videos, total, err
}

// ListByOwner returns every video of a channel, newest first.
func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

// CountByOwner counts a channel's videos.
func (r *VideoRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// SumViewsByOwner totals views across a channel's videos.
func (r *VideoRepository) SumViewsByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Select("COALESCE(SUM(views), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&total).Error
	return total, err
}

// Delete removes a video together with its likes, comments (and their
// likes), watch history entries and playlist references.
func (r *VideoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", model.TargetComment, commentIDs).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", model.TargetVideo, id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.WatchEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Playlist{}).
			Where("? = ANY(video_ids)", id).
			Update("video_ids", gorm.Expr("array_remove(video_ids, ?)", id)).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Video{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
