package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/utils"
)

// ToggleLike returns a handler toggling likes on targets of type tt, whose
// id is in route parameter param.
func (h *Handler) ToggleLike(tt model.TargetType, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, param)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		liked, err := h.Services.Likes.Toggle(c.Request.Context(), middleware.GetUserID(c), tt, id)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if liked {
			utils.Respond(c, http.StatusCreated, gin.H{"isLiked": true}, "Liked successfully")
			return
		}
		utils.Success(c, gin.H{"isLiked": false}, "Unliked successfully")
	}
}

func (h *Handler) LikedVideos(c *gin.Context) {
	videos, err := h.Services.Likes.LikedVideos(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, videos, "Liked videos fetched successfully")
}

// LikeStatus reports like state for /likes/status/:contentType/:contentId,
// where contentType is v, c or t.
func (h *Handler) LikeStatus(c *gin.Context) {
	tt, ok := model.ParseTargetType(c.Param("contentType"))
	if !ok {
		utils.Fail(c, apperr.BadRequest("Invalid content type"))
		return
	}
	id, err := pathID(c, "contentId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	status, err := h.Services.Likes.Status(c.Request.Context(), middleware.GetUserID(c), tt, id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, status, "Like status fetched successfully")
}
