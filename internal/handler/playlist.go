package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

type playlistRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

func (h *Handler) CreatePlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Invalid playlist details")
		return
	}
	playlist, err := h.Services.Playlists.Create(c.Request.Context(), middleware.GetUserID(c), service.PlaylistInput(req))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, playlist, "Playlist created successfully")
}

// ListPlaylists lists ?userId='s playlists, defaulting to the caller's.
func (h *Handler) ListPlaylists(c *gin.Context) {
	userID, err := queryID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if userID == 0 {
		if userID, err = requireUser(c); err != nil {
			utils.Fail(c, err)
			return
		}
	}
	playlists, err := h.Services.Playlists.ListByUser(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, playlists, "Playlists fetched successfully")
}

func (h *Handler) GetPlaylist(c *gin.Context) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	playlist, err := h.Services.Playlists.Get(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, playlist, "Playlist fetched successfully")
}

func (h *Handler) UpdatePlaylist(c *gin.Context) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req playlistRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Invalid playlist details")
		return
	}
	playlist, err := h.Services.Playlists.Update(c.Request.Context(), middleware.GetUserID(c), id, service.PlaylistInput(req))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, playlist, "Playlist updated successfully")
}

func (h *Handler) DeletePlaylist(c *gin.Context) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Services.Playlists.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{}, "Playlist deleted successfully")
}

func (h *Handler) AddPlaylistVideo(c *gin.Context) {
	id, videoID, err := playlistVideoIDs(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	playlist, changed, err := h.Services.Playlists.AddVideo(c.Request.Context(), middleware.GetUserID(c), id, videoID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	msg := "Video added to playlist"
	if !changed {
		msg = "Video already in playlist"
	}
	utils.Success(c, playlist, msg)
}

func (h *Handler) RemovePlaylistVideo(c *gin.Context) {
	id, videoID, err := playlistVideoIDs(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	playlist, changed, err := h.Services.Playlists.RemoveVideo(c.Request.Context(), middleware.GetUserID(c), id, videoID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	msg := "Video removed from playlist"
	if !changed {
		msg = "Video not in playlist"
	}
	utils.Success(c, playlist, msg)
}

func playlistVideoIDs(c *gin.Context) (uint, uint, error) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		return 0, 0, err
	}
	videoID, err := pathID(c, "videoId")
	if err != nil {
		return 0, 0, err
	}
	return id, videoID, nil
}
