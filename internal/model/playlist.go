package model

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

// Playlist is an ordered list of video ids owned by a user.
type Playlist struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	OwnerID     uint          `json:"ownerId" gorm:"not null;uniqueIndex:idx_playlist_owner_name" validate:"required"`
	Name        string        `json:"name" gorm:"size:120;not null;uniqueIndex:idx_playlist_owner_name" validate:"required,max=120"`
	Description string        `json:"description" gorm:"not null" validate:"required"`
	VideoIDs    pq.Int64Array `json:"videoIds" gorm:"type:bigint[];not null;default:'{}'"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Owner       *OwnerSummary `json:"owner,omitempty" gorm:"-"`
	Videos      []*Video      `json:"videos,omitempty" gorm:"-"`
}

// Contains reports whether the playlist already holds videoID.
func (p *Playlist) Contains(videoID uint) bool {
	return slices.Contains(p.VideoIDs, int64(videoID))
}
