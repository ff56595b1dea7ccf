package model

import "time"

// Video is an uploaded video owned by a user.
type Video struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	OwnerID     uint          `json:"ownerId" gorm:"not null;index" validate:"required"`
	Title       string        `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Description string        `json:"description" gorm:"not null" validate:"required"`
	VideoFile   string        `json:"videoFile" gorm:"not null" validate:"required"`
	Thumbnail   string        `json:"thumbnail" gorm:"not null" validate:"required"`
	Duration    float64       `json:"duration" validate:"gte=0"`
	Views       int64         `json:"views" gorm:"not null;default:0"`
	IsPublished bool          `json:"isPublished" gorm:"not null;default:true"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Owner       *OwnerSummary `json:"owner,omitempty" gorm:"-"`
}

// VisibleTo reports whether viewerID may see the video.
func (v *Video) VisibleTo(viewerID uint) bool {
	return v.IsPublished || (viewerID != 0 && v.OwnerID == viewerID)
}

// HistoryItem is a watch history row with its video resolved.
type HistoryItem struct {
	Video     *Video    `json:"video"`
	WatchedAt time.Time `json:"watchedAt"`
}
