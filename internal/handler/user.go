package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" binding:"required"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" form:"fullName" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
}

// Register creates an account from a multipart form.
func (h *Handler) Register(c *gin.Context) {
	staged, err := h.uploads.Stage(c, fieldAvatar, fieldCoverImage)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer staged.Cleanup()

	user, err := h.Services.Users.Register(c.Request.Context(), service.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		FullName: c.PostForm("fullName"),
		Password: c.PostForm("password"),
	}, staged.Path(fieldAvatar), staged.Path(fieldCoverImage))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, user, "User registered successfully")
}

// Login opens a session and sets the token cookies.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Password is required")
		return
	}

	user, pair, err := h.Services.Users.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	utils.Success(c, gin.H{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout ends the session and clears the cookies.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Services.Users.Logout(c.Request.Context(), middleware.GetUserID(c), middleware.GetClaims(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	h.clearSessionCookies(c)
	utils.Success(c, gin.H{}, "User logged out")
}

// RefreshToken rotates the refresh token from the cookie or the body.
func (h *Handler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshCookie)
	if token == "" {
		var req refreshRequest
		_ = c.ShouldBind(&req)
		token = req.RefreshToken
	}

	pair, err := h.Services.Users.Refresh(c.Request.Context(), token)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	utils.Success(c, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Old and new password are required")
		return
	}
	if err := h.Services.Users.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.OldPassword, req.NewPassword); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{}, "Password changed successfully")
}

func (h *Handler) CurrentUser(c *gin.Context) {
	utils.Success(c, middleware.CurrentUser(c), "Current user fetched successfully")
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Full name and a valid email are required")
		return
	}
	user, err := h.Services.Users.UpdateAccount(c.Request.Context(), middleware.GetUserID(c), req.FullName, req.Email)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user, "Account details updated successfully")
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	staged, err := h.uploads.Stage(c, fieldAvatar)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer staged.Cleanup()

	user, err := h.Services.Users.UpdateAvatar(c.Request.Context(), middleware.GetUserID(c), staged.Path(fieldAvatar))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user, "Avatar updated successfully")
}

func (h *Handler) UpdateCoverImage(c *gin.Context) {
	staged, err := h.uploads.Stage(c, fieldCoverImage)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer staged.Cleanup()

	user, err := h.Services.Users.UpdateCoverImage(c.Request.Context(), middleware.GetUserID(c), staged.Path(fieldCoverImage))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user, "Cover image updated successfully")
}

// ChannelProfile returns a channel header by username.
func (h *Handler) ChannelProfile(c *gin.Context) {
	info, err := h.Services.Stats.ChannelInfo(c.Request.Context(), c.Param("username"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, info, "Channel fetched successfully")
}

// UserProfile returns a user by id with content counts.
func (h *Handler) UserProfile(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	profile, err := h.Services.Users.Profile(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, profile, "User fetched successfully")
}

func (h *Handler) WatchHistory(c *gin.Context) {
	items, err := h.Services.Stats.WatchHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, items, "Watch history fetched successfully")
}

// requireUser is used by handlers mounted behind OptionalAuth that still
// need a signed-in caller for some inputs.
func requireUser(c *gin.Context) (uint, error) {
	id := middleware.GetUserID(c)
	if id == 0 {
		return 0, apperr.Unauthorized("Unauthorized request")
	}
	return id, nil
}
