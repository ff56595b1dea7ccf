package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

const (
	// AccessCookie and RefreshCookie name the session cookies.
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	userKey   = "user"
	claimsKey = "claims"
)

// TokenValidator resolves an access token to its user.
type TokenValidator interface {
	ValidateAccess(ctx context.Context, token string) (*model.User, *service.Claims, error)
}

// RequireAuth rejects requests without a valid access token.
func RequireAuth(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := v.ValidateAccess(c.Request.Context(), extractToken(c))
		if err != nil {
			utils.AbortWith(c, err)
			return
		}
		setUser(c, user, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if user, claims, err := v.ValidateAccess(c.Request.Context(), token); err == nil {
				setUser(c, user, claims)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *model.User, claims *service.Claims) {
	c.Set(userKey, user)
	c.Set(claimsKey, claims)
	utils.SetRequestLogger(c, utils.RequestLogger(c).With("user_id", user.ID))
}

// extractToken reads the access token from the cookie, then the
// Authorization header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// GetUserID returns the authenticated user's id, 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// GetClaims returns the access token claims, or nil.
func GetClaims(c *gin.Context) *service.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if cl, ok := v.(*service.Claims); ok {
			return cl
		}
	}
	return nil
}
