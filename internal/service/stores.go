package service

import (
	"context"
	"time"

	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

// The store interfaces below are satisfied by the repository package and by
// in-memory fakes in tests.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByLogin(ctx context.Context, email, username string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*model.User, error)
	Taken(ctx context.Context, username, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, id uint, email string) (bool, error)
	SetRefreshToken(ctx context.Context, id uint, token string) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateAvatar(ctx context.Context, id uint, url string) error
	UpdateCoverImage(ctx context.Context, id uint, url string) error
	UpdateAccount(ctx context.Context, id uint, fullName, email string) error
}

type VideoStore interface {
	Create(ctx context.Context, v *model.Video) error
	FindByID(ctx context.Context, id uint) (*model.Video, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*model.Video, error)
	Exists(ctx context.Context, id uint) (bool, error)
	UpdateDetails(ctx context.Context, v *model.Video) error
	IncrementViews(ctx context.Context, id uint) error
	List(ctx context.Context, f repository.VideoFilter) ([]*model.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*model.Video, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	SumViewsByOwner(ctx context.Context, ownerID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type SubscriptionStore interface {
	Find(ctx context.Context, subscriberID, channelID uint) (*model.Subscription, error)
	Create(ctx context.Context, s *model.Subscription) error
	Delete(ctx context.Context, id uint) error
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error)
	SubscriberIDs(ctx context.Context, channelID uint) ([]uint, error)
	ChannelIDs(ctx context.Context, subscriberID uint) ([]uint, error)
}

type LikeStore interface {
	Find(ctx context.Context, userID uint, tt model.TargetType, targetID uint) (*model.Like, error)
	Create(ctx context.Context, l *model.Like) error
	Delete(ctx context.Context, id uint) error
	CountForTarget(ctx context.Context, tt model.TargetType, targetID uint) (int64, error)
	CountOnOwnerVideos(ctx context.Context, ownerID uint) (int64, error)
	LikedVideoIDs(ctx context.Context, userID uint) ([]uint, error)
}

type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	UpdateContent(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id uint) error
	ListByVideo(ctx context.Context, videoID uint, page repository.Page) ([]*model.Comment, int64, error)
}

type TweetStore interface {
	Create(ctx context.Context, t *model.Tweet) error
	FindByID(ctx context.Context, id uint) (*model.Tweet, error)
	UpdateContent(ctx context.Context, t *model.Tweet) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f repository.TweetFilter) ([]*model.Tweet, int64, error)
}

type PlaylistStore interface {
	Create(ctx context.Context, p *model.Playlist) error
	FindByID(ctx context.Context, id uint) (*model.Playlist, error)
	NameTaken(ctx context.Context, ownerID uint, name string, exceptID uint) (bool, error)
	UpdateDetails(ctx context.Context, p *model.Playlist) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint) ([]*model.Playlist, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	AddVideo(ctx context.Context, id, videoID uint) (bool, error)
	RemoveVideo(ctx context.Context, id, videoID uint) (bool, error)
}

type HistoryStore interface {
	Upsert(ctx context.Context, userID, videoID uint, at time.Time) error
	Trim(ctx context.Context, userID uint, keep int) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]*model.WatchEntry, error)
	Delete(ctx context.Context, userID, videoID uint) error
}

// Pagination is a normalized page request.
type Pagination struct {
	Page  int
	Limit int
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// NewPagination applies the defaults and bounds.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) repo() repository.Page {
	return repository.Page{Limit: p.Limit, Offset: (p.Page - 1) * p.Limit}
}
