package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/domain"
	"github.com/damoang/caption-queue/pkg/ginutil"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	contextKeyPrincipal = "principal"
	contextKeyUsername  = "username"

	// LoginPath is where unauthenticated browsers are sent
	LoginPath = "/login"
)

// Authenticator resolves a session token to a principal
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// SessionAuth admits requests carrying a valid session cookie.
// Browsers without one are redirected to the login page; JSON clients get 401.
func SessionAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)

		principal, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, common.ErrUnauthorized) {
				pkglogger.GetLogger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("session lookup failed")
			}
			rejectUnauthenticated(c)
			return
		}

		c.Set(contextKeyPrincipal, principal)
		c.Set(contextKeyUsername, principal.Username)
		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context) {
	if ginutil.WantsJSON(c) {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		c.Abort()
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// GetPrincipal returns the authenticated principal, or nil
func GetPrincipal(c *gin.Context) *domain.Principal {
	if v, ok := c.Get(contextKeyPrincipal); ok {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}
	return nil
}

// GetUsername returns the authenticated username, or ""
func GetUsername(c *gin.Context) string {
	return c.GetString(contextKeyUsername)
}
