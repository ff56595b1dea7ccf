package service

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/user/vidtube/internal/repository"
	"github.com/user/vidtube/internal/storage"
)

// Stores are the persistence dependencies of the services.
type Stores struct {
	Users         UserStore
	Videos        VideoStore
	Subscriptions SubscriptionStore
	Likes         LikeStore
	Comments      CommentStore
	Tweets        TweetStore
	Playlists     PlaylistStore
	History       HistoryStore
}

// StoresFrom adapts the repository set.
func StoresFrom(r *repository.Repositories) Stores {
	return Stores{
		Users:         r.User,
		Videos:        r.Video,
		Subscriptions: r.Subscription,
		Likes:         r.Like,
		Comments:      r.Comment,
		Tweets:        r.Tweet,
		Playlists:     r.Playlist,
		History:       r.History,
	}
}

// Options configures Services.
type Options struct {
	Tokens        TokenConfig
	Blacklist     Blacklist
	Media         storage.MediaStore
	Prober        DurationProber
	HistoryLimit  int
	OwnerCacheTTL time.Duration
	Logger        *log.Logger
}

// Services groups every service.
type Services struct {
	Sessions      *SessionIssuer
	Users         *UserService
	Videos        *VideoService
	Stats         *StatsService
	Likes         *LikeService
	Subscriptions *SubscriptionService
	Comments      *CommentService
	Tweets        *TweetService
	Playlists     *PlaylistService
	Media         *MediaService
	Owners        *OwnerDirectory
}

// New wires every service over st.
func New(st Stores, opts Options) *Services {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	ttl := opts.OwnerCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	owners := NewOwnerDirectory(st.Users, 1024, ttl)
	media := NewMediaService(opts.Media, opts.Prober, logger.WithPrefix("media"))
	sessions := NewSessionIssuer(st.Users, opts.Blacklist, opts.Tokens, logger.WithPrefix("sessions"))

	return &Services{
		Sessions:      sessions,
		Users:         NewUserService(st.Users, st.Videos, st.Playlists, sessions, media, owners),
		Videos:        NewVideoService(st.Videos, st.History, media, owners, opts.HistoryLimit),
		Stats:         NewStatsService(st.Users, st.Videos, st.Likes, st.Subscriptions, st.History, owners, opts.HistoryLimit),
		Likes:         NewLikeService(st.Likes, st.Videos, st.Comments, st.Tweets, owners),
		Subscriptions: NewSubscriptionService(st.Subscriptions, st.Users, owners),
		Comments:      NewCommentService(st.Comments, st.Videos, owners),
		Tweets:        NewTweetService(st.Tweets, st.Users, owners),
		Playlists:     NewPlaylistService(st.Playlists, st.Videos, owners),
		Media:         media,
		Owners:        owners,
	}
}
