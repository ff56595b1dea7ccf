package model

import "time"

// TargetType names the kind of resource a Like points at.
type TargetType string

const (
	TargetVideo   TargetType = "video"
	TargetComment TargetType = "comment"
	TargetTweet   TargetType = "tweet"
)

// ParseTargetType accepts the short route codes v, c, t as well as the full names.
func ParseTargetType(s string) (TargetType, bool) {
	switch s {
	case "v", "video":
		return TargetVideo, true
	case "c", "comment":
		return TargetComment, true
	case "t", "tweet":
		return TargetTweet, true
	}
	return "", false
}

// Like records that LikedBy likes exactly one target.
type Like struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	LikedBy    uint       `json:"likedBy" gorm:"not null;uniqueIndex:idx_like_target" validate:"required"`
	TargetType TargetType `json:"targetType" gorm:"size:16;not null;uniqueIndex:idx_like_target;index:idx_like_lookup" validate:"required,oneof=video comment tweet"`
	TargetID   uint       `json:"targetId" gorm:"not null;uniqueIndex:idx_like_target;index:idx_like_lookup" validate:"required"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Subscription records that SubscriberID follows ChannelID.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uint      `json:"subscriberId" gorm:"not null;uniqueIndex:idx_subscription_pair" validate:"required"`
	ChannelID    uint      `json:"channelId" gorm:"not null;uniqueIndex:idx_subscription_pair;index" validate:"required,nefield=SubscriberID"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment is a text reply on a video.
type Comment struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	VideoID   uint          `json:"videoId" gorm:"not null;index" validate:"required"`
	OwnerID   uint          `json:"ownerId" gorm:"not null;index" validate:"required"`
	Content   string        `json:"content" gorm:"not null" validate:"required,max=2000"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Owner     *OwnerSummary `json:"owner,omitempty" gorm:"-"`
}

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	OwnerID   uint          `json:"ownerId" gorm:"not null;index" validate:"required"`
	Content   string        `json:"content" gorm:"not null" validate:"required,max=500"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Owner     *OwnerSummary `json:"owner,omitempty" gorm:"-"`
}
