package repository

import (
	"context"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// UpdateContent rewrites a comment's text.
func (r *CommentRepository) UpdateContent(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Model(c).Update("content", c.Content).Error
}

// Delete removes a comment and the likes on it.
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", model.TargetComment, id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Comment{}, id).Error
	})
}

// ListByVideo returns a page of a video's comments, newest first.
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID uint, page Page) ([]*model.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*model.Comment
	err := page.apply(q.Order("created_at DESC").Order("id DESC")).Find(&comments).Error
	return comments, total, err
}
