package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/config"
	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/service"
)

// Handler serves the REST API.
type Handler struct {
	Config   *config.Config
	Services *service.Services
	uploads  *Uploader
}

// NewHandler builds the handler set.
func NewHandler(cfg *config.Config, svcs *service.Services) *Handler {
	return &Handler{
		Config:   cfg,
		Services: svcs,
		uploads:  NewUploader(cfg.Upload.TempDir, cfg.Upload.MaxBytes),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathID parses a positive numeric route parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("Invalid %s", name)
	}
	return uint(id), nil
}

// queryID parses an optional numeric query parameter, 0 when absent.
func queryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid %s", name)
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}

func pagination(c *gin.Context) service.Pagination {
	return service.NewPagination(queryInt(c, "page"), queryInt(c, "limit"))
}

func (h *Handler) setSessionCookies(c *gin.Context, pair *service.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, pair.AccessToken, maxAge(pair.AccessExpiresAt), "/", "", h.Config.CookieSecure, true)
	c.SetCookie(middleware.RefreshCookie, pair.RefreshToken, maxAge(pair.RefreshExpiresAt), "/", "", h.Config.CookieSecure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", h.Config.CookieSecure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", "", h.Config.CookieSecure, true)
}

func maxAge(until time.Time) int {
	return int(time.Until(until).Seconds())
}
