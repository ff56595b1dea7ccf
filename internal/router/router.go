package router

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/handler"
	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/model"
)

// NewEngine builds the gin engine with the shared middleware chain and
// every route.
func NewEngine(h *handler.Handler, logger *log.Logger) *gin.Engine {
	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(h.Config.CORSOrigin))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	if h.Config.Media.Driver == "local" {
		r.Static("/media", h.Config.Media.LocalDir)
	}

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	auth := middleware.RequireAuth(h.Services.Sessions)
	optional := middleware.OptionalAuth(h.Services.Sessions)
	limiter := middleware.RateLimit(middleware.NewIPRateLimiter(h.Config.AuthRateLimit, time.Minute, 5, 10*time.Minute))

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	api.GET("/health", h.Health)

	// ==================== users ====================
	users := api.Group("/users")
	{
		users.POST("/register", limiter, h.Register)
		users.POST("/login", limiter, h.Login)
		users.POST("/refresh-token", h.RefreshToken)

		users.POST("/logout", auth, h.Logout)
		users.POST("/change-password", auth, h.ChangePassword)
		users.GET("/current-user", auth, h.CurrentUser)
		users.PATCH("/update-account", auth, h.UpdateAccount)
		users.PATCH("/avatar", auth, h.UpdateAvatar)
		users.PATCH("/cover-image", auth, h.UpdateCoverImage)
		users.GET("/watch-history", auth, h.WatchHistory)

		users.GET("/c/:username", optional, h.ChannelProfile)
		users.GET("/u/:userId", optional, h.UserProfile)
	}

	// ==================== videos ====================
	videos := api.Group("/videos")
	{
		videos.GET("", optional, h.ListVideos)
		videos.GET("/:videoId", optional, h.GetVideo)
		videos.POST("/:videoId/view", optional, h.RecordView)

		videos.POST("", auth, h.PublishVideo)
		videos.PATCH("/:videoId", auth, h.UpdateVideo)
		videos.DELETE("/:videoId", auth, h.DeleteVideo)
		videos.PATCH("/:videoId/publish", auth, h.TogglePublish)
	}

	// ==================== comments ====================
	comments := api.Group("/comments")
	{
		comments.GET("/:videoId", optional, h.ListComments)
		comments.POST("/:videoId", auth, h.AddComment)
		comments.PATCH("/c/:commentId", auth, h.UpdateComment)
		comments.DELETE("/c/:commentId", auth, h.DeleteComment)
	}

	// ==================== likes ====================
	likes := api.Group("/likes")
	{
		likes.POST("/toggle/v/:videoId", auth, h.ToggleLike(model.TargetVideo, "videoId"))
		likes.POST("/toggle/c/:commentId", auth, h.ToggleLike(model.TargetComment, "commentId"))
		likes.POST("/toggle/t/:tweetId", auth, h.ToggleLike(model.TargetTweet, "tweetId"))
		likes.GET("/videos", auth, h.LikedVideos)
		likes.GET("/status/:contentType/:contentId", optional, h.LikeStatus)
	}

	// ==================== tweets ====================
	tweets := api.Group("/tweets")
	{
		tweets.GET("", optional, h.ListTweets)
		tweets.GET("/user/:userId", optional, h.UserTweets)
		tweets.POST("", auth, h.CreateTweet)
		tweets.PATCH("/:tweetId", auth, h.UpdateTweet)
		tweets.DELETE("/:tweetId", auth, h.DeleteTweet)
	}

	// ==================== subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("/c/:channelId", auth, h.ToggleSubscription)
		subscriptions.GET("/c/:subscriberId", optional, h.SubscribedChannels)
		subscriptions.GET("/u/:channelId", optional, h.ChannelSubscribers)
	}

	// ==================== playlists ====================
	playlists := api.Group("/playlist")
	{
		playlists.GET("", optional, h.ListPlaylists)
		playlists.GET("/:playlistId", optional, h.GetPlaylist)
		playlists.POST("", auth, h.CreatePlaylist)
		playlists.PATCH("/:playlistId", auth, h.UpdatePlaylist)
		playlists.DELETE("/:playlistId", auth, h.DeletePlaylist)
		playlists.POST("/:playlistId/videos/:videoId", auth, h.AddPlaylistVideo)
		playlists.DELETE("/:playlistId/videos/:videoId", auth, h.RemovePlaylistVideo)
	}

	// ==================== dashboard ====================
	dashboard := api.Group("/dashboard", auth)
	{
		dashboard.GET("/stats", h.ChannelStats)
		dashboard.GET("/videos", h.ChannelVideos)
		dashboard.GET("/watch-history", h.WatchHistory)
		dashboard.DELETE("/watch-history/:videoId", h.RemoveFromHistory)
	}
}
