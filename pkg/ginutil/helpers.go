package ginutil

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// PostFormUint64 extracts a positive integer ID from a form field
func PostFormUint64(c *gin.Context, key string) (uint64, error) {
	valueStr := strings.TrimSpace(c.PostForm(key))
	return strconv.ParseUint(valueStr, 10, 64)
}

// WantsJSON reports whether the client prefers a JSON response over HTML
func WantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
