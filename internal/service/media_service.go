package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/pkg/storage"
)

// MediaService validates uploads and hands them to the configured media store
type MediaService struct {
	store     storage.Store
	maxSize   int64    // max file size in bytes
	allowExts []string // allowed file extensions
}

// NewMediaService creates a new MediaService
func NewMediaService(store storage.Store, maxSize int64) *MediaService {
	return &MediaService{
		store:   store,
		maxSize: maxSize,
		allowExts: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic",
			".mp4", ".webm", ".mov", ".m4v",
		},
	}
}

// Save validates the upload and stores it under a fresh unique name.
// size is the declared length in bytes, or -1 when unknown.
func (s *MediaService) Save(ctx context.Context, body io.Reader, size int64, originalName string) (string, error) {
	if strings.TrimSpace(originalName) == "" {
		return "", fmt.Errorf("%w: missing file name", common.ErrInvalidInput)
	}
	if size > s.maxSize {
		return "", fmt.Errorf("%w: file too large (max %dMB)", common.ErrInvalidInput, s.maxSize/(1024*1024))
	}
	if !s.isAllowedExt(originalName) {
		return "", fmt.Errorf("%w: unsupported file type %q", common.ErrInvalidInput, filepath.Ext(originalName))
	}

	capped := &cappedReader{r: io.LimitReader(body, s.maxSize+1), max: s.maxSize}
	ref, err := s.store.Save(ctx, capped, originalName)
	if capped.exceeded {
		return "", fmt.Errorf("%w: file too large (max %dMB)", common.ErrInvalidInput, s.maxSize/(1024*1024))
	}
	if err != nil {
		return "", &common.StorageError{Name: originalName, Err: err}
	}
	return ref, nil
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

// cappedReader fails the read once more than max bytes have arrived, so the
// store aborts the write instead of keeping a truncated file.
type cappedReader struct {
	r        io.Reader
	max      int64
	n        int64
	exceeded bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.max {
		c.exceeded = true
		return 0, errUploadTooLarge
	}
	return n, err
}

func (s *MediaService) isAllowedExt(name string) bool {
	ext := storage.Ext(name)
	for _, allowed := range s.allowExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
