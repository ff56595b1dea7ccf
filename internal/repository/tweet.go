package repository

import (
	"context"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TweetFilter selects tweets for listing.
type TweetFilter struct {
	Query   string
	OwnerID uint
	Asc     bool
	Page    Page
}

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TweetRepository) FindByID(ctx context.Context, id uint) (*model.Tweet, error) {
	var t model.Tweet
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// UpdateContent rewrites a tweet's text.
func (r *TweetRepository) UpdateContent(ctx context.Context, t *model.Tweet) error {
	return r.db.WithContext(ctx).Model(t).Update("content", t.Content).Error
}

// Delete removes a tweet and the likes on it.
func (r *TweetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", model.TargetTweet, id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tweet{}, id).Error
	})
}

// List returns a page of tweets and the total match count.
func (r *TweetRepository) List(ctx context.Context, f TweetFilter) ([]*model.Tweet, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Tweet{})
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Query != "" {
		q = q.Where("content ILIKE ?", "%"+escapeLike(f.Query)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tweets []*model.Tweet
	err := f.Page.apply(q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: !f.Asc})).
		Find(&tweets).Error
	return tweets, total, err
}
