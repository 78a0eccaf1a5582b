package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/middleware"
	"github.com/damoang/caption-queue/internal/service"
	"github.com/damoang/caption-queue/internal/web"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	service      service.AuthService
	cookieName   string
	secureCookie bool
	now          func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieName:   cookieName,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.LoginPage, gin.H{})
}

// Login handles POST /login (form: username, password)
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	result, err := h.service.Login(c.Request.Context(), username, password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		_ = c.Error(err)
		c.HTML(http.StatusUnauthorized, web.LoginPage, gin.H{
			"Error":    "Invalid credentials.",
			"Username": username,
		})
		return
	}
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Login failed. Please try again.", err)
		return
	}

	maxAge := int(result.ExpiresAt.Sub(h.now()).Seconds())
	h.setSessionCookie(c, result.Token, maxAge)

	pkglogger.GetLogger().Info().Str("username", result.Username).Msg("operator logged in")
	c.Redirect(http.StatusFound, "/approval")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookieName)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		// 세션 저장소 오류여도 쿠키는 지운다
		pkglogger.GetLogger().Warn().Err(err).Msg("session revoke failed")
	}

	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// setSessionCookie writes the session cookie. maxAge < 0 deletes it.
// 보안: httpOnly, SameSite=Lax (cross-site form POST 차단)
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cookieName,   // name
		token,          // value
		maxAge,         // maxAge
		"/",            // path
		"",             // domain
		h.secureCookie, // secure
		true,           // httpOnly
	)
}
