package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	valid map[string]string
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.valid[token]; ok {
		return &domain.Principal{Username: user, SessionID: "sid-" + token}, nil
	}
	return nil, common.ErrUnauthorized
}

func newAuthRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(auth, "cq_session"))
	r.GET("/approval", func(c *gin.Context) {
		c.String(http.StatusOK, GetUsername(c)+"|"+GetPrincipal(c).SessionID)
	})
	return r
}

func TestSessionAuth_Admits(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{valid: map[string]string{"tok": "admin"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/approval", nil)
	req.AddCookie(&http.Cookie{Name: "cq_session", Value: "tok"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin|sid-tok", w.Body.String())
}

func TestSessionAuth_RedirectsBrowser(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/approval", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSessionAuth_JSONClientGets401(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{valid: map[string]string{"tok": "admin"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/approval", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: "cq_session", Value: "forged"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestSessionAuth_StoreFailureRejects(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{err: errors.New("redis down")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/approval", nil)
	req.AddCookie(&http.Cookie{Name: "cq_session", Value: "tok"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}
