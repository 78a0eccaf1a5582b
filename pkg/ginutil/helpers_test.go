package ginutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func formContext(values url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestPostFormUint64(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint64
		wantErr bool
	}{
		{"plain", "42", 42, false},
		{"padded", " 7 ", 7, false},
		{"empty", "", 0, true},
		{"negative", "-1", 0, true},
		{"text", "abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := formContext(url.Values{"postId": {tt.value}})
			got, err := PostFormUint64(c, "postId")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"application/json", true},
		{"application/json, text/plain", true},
		{"text/html,application/xhtml+xml,application/json;q=0.9", false},
		{"", false},
	}
	for _, tt := range tests {
		c := formContext(nil)
		c.Request.Header.Set("Accept", tt.accept)
		assert.Equal(t, tt.want, WantsJSON(c), tt.accept)
	}
}
