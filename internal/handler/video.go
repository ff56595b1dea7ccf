package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

type updateVideoRequest struct {
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
}

func (h *Handler) ListVideos(c *gin.Context) {
	userID, err := queryID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	videos, err := h.Services.Videos.List(c.Request.Context(), service.VideoQuery{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   userID,
	}, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, videos, "Videos fetched successfully")
}

// PublishVideo uploads a video and its thumbnail.
func (h *Handler) PublishVideo(c *gin.Context) {
	staged, err := h.uploads.Stage(c, fieldVideoFile, fieldThumbnail)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer staged.Cleanup()

	video, err := h.Services.Videos.Publish(c.Request.Context(), middleware.GetUserID(c), service.PublishInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}, staged.Path(fieldVideoFile), staged.Path(fieldThumbnail))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, video, "Video uploaded successfully")
}

func (h *Handler) GetVideo(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	video, err := h.Services.Videos.Get(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, video, "Video fetched successfully")
}

// UpdateVideo changes details; a new thumbnail may be sent as multipart.
func (h *Handler) UpdateVideo(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var staged Staged
	if c.ContentType() == "multipart/form-data" {
		if staged, err = h.uploads.Stage(c, fieldThumbnail); err != nil {
			utils.Fail(c, err)
			return
		}
		defer staged.Cleanup()
	}

	var req updateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Invalid video details")
		return
	}

	video, err := h.Services.Videos.Update(c.Request.Context(), middleware.GetUserID(c), id, service.VideoUpdate{
		Title:       req.Title,
		Description: req.Description,
	}, staged.Path(fieldThumbnail))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, video, "Video updated successfully")
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Services.Videos.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{}, "Video deleted successfully")
}

func (h *Handler) TogglePublish(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	video, err := h.Services.Videos.TogglePublish(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"isPublished": video.IsPublished}, "Publish status toggled successfully")
}

// RecordView counts a view and updates the caller's watch history.
func (h *Handler) RecordView(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	video, err := h.Services.Videos.RecordView(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"views": video.Views}, "View recorded")
}
