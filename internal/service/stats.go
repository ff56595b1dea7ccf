package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

// ChannelStats summarises a channel for its owner's dashboard.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalVideoLikes  int64 `json:"totalVideoLikes"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}

// ChannelInfo is a channel page header as seen by a viewer.
type ChannelInfo struct {
	ID                        uint   `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

type StatsService struct {
	users         UserStore
	videos        VideoStore
	likes         LikeStore
	subscriptions SubscriptionStore
	history       HistoryStore
	owners        *OwnerDirectory
	historyLimit  int
}

func NewStatsService(users UserStore, videos VideoStore, likes LikeStore, subscriptions SubscriptionStore, history HistoryStore, owners *OwnerDirectory, historyLimit int) *StatsService {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &StatsService{
		users:         users,
		videos:        videos,
		likes:         likes,
		subscriptions: subscriptions,
		history:       history,
		owners:        owners,
		historyLimit:  historyLimit,
	}
}

// ChannelStats totals a channel's videos, views, video likes and subscribers.
// A channel with nothing yet reports zeros.
func (s *StatsService) ChannelStats(ctx context.Context, ownerID uint) (*ChannelStats, error) {
	var stats ChannelStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVideos, err = s.videos.CountByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalViews, err = s.videos.SumViewsByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalVideoLikes, err = s.likes.CountOnOwnerVideos(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSubscribers, err = s.subscriptions.CountSubscribers(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}
	return &stats, nil
}

// ChannelInfo looks a channel up by handle. viewerID 0 means anonymous.
func (s *StatsService) ChannelInfo(ctx context.Context, username string, viewerID uint) (*ChannelInfo, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.BadRequest("Username is missing")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Channel does not exist")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	info := &ChannelInfo{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info.SubscribersCount, err = s.subscriptions.CountSubscribers(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		info.ChannelsSubscribedToCount, err = s.subscriptions.CountSubscribedTo(gctx, user.ID)
		return err
	})
	if viewerID != 0 && viewerID != user.ID {
		g.Go(func() error {
			_, err := s.subscriptions.Find(gctx, viewerID, user.ID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			info.IsSubscribed = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}
	return info, nil
}

// ChannelVideos lists every video the owner uploaded, newest first,
// including unpublished ones.
func (s *StatsService) ChannelVideos(ctx context.Context, ownerID uint) ([]*model.Video, error) {
	videos, err := s.videos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return nonNil(videos), nil
}

// WatchHistory returns the user's watched videos, most recent first, with
// each video's owner resolved. Videos that are gone are skipped.
func (s *StatsService) WatchHistory(ctx context.Context, userID uint) ([]*model.HistoryItem, error) {
	entries, err := s.history.ListByUser(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.VideoID
	}
	videos, err := s.videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.owners.attachVideos(ctx, videos); err != nil {
		return nil, apperr.Internal(err)
	}

	byID := make(map[uint]*model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	items := make([]*model.HistoryItem, 0, len(entries))
	for _, e := range entries {
		v, ok := byID[e.VideoID]
		if !ok || !v.VisibleTo(userID) {
			continue
		}
		items = append(items, &model.HistoryItem{Video: v, WatchedAt: e.WatchedAt})
	}
	return items, nil
}

// RemoveFromHistory drops one video from the user's history.
func (s *StatsService) RemoveFromHistory(ctx context.Context, userID, videoID uint) error {
	err := s.history.Delete(ctx, userID, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Video not found in watch history")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
