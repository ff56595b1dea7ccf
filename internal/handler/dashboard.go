package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/utils"
)

func (h *Handler) ChannelStats(c *gin.Context) {
	stats, err := h.Services.Stats.ChannelStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, stats, "Channel stats fetched successfully")
}

func (h *Handler) ChannelVideos(c *gin.Context) {
	videos, err := h.Services.Stats.ChannelVideos(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, videos, "Channel videos fetched successfully")
}

func (h *Handler) RemoveFromHistory(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Services.Stats.RemoveFromHistory(c.Request.Context(), middleware.GetUserID(c), videoID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{}, "Video removed from watch history")
}
