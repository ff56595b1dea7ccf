package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/utils"
)

type contentRequest struct {
	Content string `json:"content" form:"content" binding:"required"`
}

func (h *Handler) ListComments(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	comments, err := h.Services.Comments.ListByVideo(c.Request.Context(), videoID, middleware.GetUserID(c), pagination(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, comments, "Comments fetched successfully")
}

func (h *Handler) AddComment(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req contentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Content is required")
		return
	}
	comment, err := h.Services.Comments.Add(c.Request.Context(), middleware.GetUserID(c), videoID, req.Content)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, comment, "Comment added successfully")
}

func (h *Handler) UpdateComment(c *gin.Context) {
	id, err := pathID(c, "commentId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req contentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Content is required")
		return
	}
	comment, err := h.Services.Comments.Update(c.Request.Context(), middleware.GetUserID(c), id, req.Content)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, comment, "Comment updated successfully")
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := pathID(c, "commentId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Services.Comments.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{}, "Comment deleted successfully")
}
