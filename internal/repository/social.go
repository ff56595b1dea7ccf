package repository

import (
	"context"
	"strings"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Find returns the subscription between the pair, ErrNotFound when none.
func (r *SubscriptionRepository) Find(ctx context.Context, subscriberID, channelID uint) (*model.Subscription, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *model.Subscription) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Subscription{}, id).Error
}

// CountSubscribers counts users subscribed to channelID.
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

// CountSubscribedTo counts channels subscriberID follows.
func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

// SubscriberIDs lists who follows channelID, newest first.
func (r *SubscriptionRepository) SubscriberIDs(ctx context.Context, channelID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Pluck("subscriber_id", &ids).Error
	return ids, err
}

// ChannelIDs lists what subscriberID follows, newest first.
func (r *SubscriptionRepository) ChannelIDs(ctx context.Context, subscriberID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Pluck("channel_id", &ids).Error
	return ids, err
}

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Find returns userID's like on the target, ErrNotFound when none.
func (r *LikeRepository) Find(ctx context.Context, userID uint, tt model.TargetType, targetID uint) (*model.Like, error) {
	var l model.Like
	err := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_type = ? AND target_id = ?", userID, tt, targetID).
		First(&l).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *LikeRepository) Create(ctx context.Context, l *model.Like) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *LikeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Like{}, id).Error
}

// CountForTarget counts likes on one target.
func (r *LikeRepository) CountForTarget(ctx context.Context, tt model.TargetType, targetID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", tt, targetID).
		Count(&count).Error
	return count, err
}

// CountOnOwnerVideos counts likes across every video of ownerID.
func (r *LikeRepository) CountOnOwnerVideos(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Joins("JOIN videos ON videos.id = likes.target_id").
		Where("likes.target_type = ? AND videos.owner_id = ?", model.TargetVideo, ownerID).
		Count(&count).Error
	return count, err
}

// LikedVideoIDs lists the videos userID likes, most recent like first.
func (r *LikeRepository) LikedVideoIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("liked_by = ? AND target_type = ?", userID, model.TargetVideo).
		Order("created_at DESC").
		Pluck("target_id", &ids).Error
	return ids, err
}
