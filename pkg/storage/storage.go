// Package storage persists uploaded media and hands back a stable reference.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists a byte stream under a fresh unique name and returns its reference path.
// Implementations never overwrite or delete stored objects.
type Store interface {
	Save(ctx context.Context, body io.Reader, originalName string) (string, error)
}

// Ext returns the lowercased extension of the original file name, or "" when it
// contains anything other than ASCII letters and digits.
func Ext(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) < 2 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// UniqueName builds "<unix-millis>-<8 hex>.<ext>". The random suffix keeps two
// uploads within the same millisecond apart.
func UniqueName(originalName string, now time.Time) string {
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], Ext(originalName))
}

// GenerateKey creates a unique storage key with a date prefix
func GenerateKey(prefix, originalName string) string {
	now := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s",
		prefix, now.Year(), now.Month(), now.Day(),
		UniqueName(originalName, now))
}

// ContentType infers a MIME type from the file extension
func ContentType(name string) string {
	if ct := mime.TypeByExtension(Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
