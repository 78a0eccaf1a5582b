package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	ref  string
	err  error
	data string
}

func (s *stubStore) Save(_ context.Context, body io.Reader, _ string) (string, error) {
	b, _ := io.ReadAll(body)
	s.data = string(b)
	return s.ref, s.err
}

func TestMediaService_Save(t *testing.T) {
	store := &stubStore{ref: "uploads/1-abcd1234.mp4"}
	svc := NewMediaService(store, 1024)

	ref, err := svc.Save(context.Background(), strings.NewReader("video"), 5, "Job.MP4")

	require.NoError(t, err)
	assert.Equal(t, "uploads/1-abcd1234.mp4", ref)
	assert.Equal(t, "video", store.data)
}

func TestMediaService_RejectsInvalidUploads(t *testing.T) {
	svc := NewMediaService(&stubStore{ref: "x"}, 1024)

	tests := []struct {
		name     string
		filename string
		size     int64
	}{
		{"too large", "a.jpg", 2048},
		{"unsupported type", "a.exe", 10},
		{"no extension", "README", 10},
		{"no name", "", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), strings.NewReader("x"), tt.size, tt.filename)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestMediaService_StoreFailure(t *testing.T) {
	svc := NewMediaService(&stubStore{err: errors.New("permission denied")}, 1024)

	_, err := svc.Save(context.Background(), strings.NewReader("x"), 1, "a.png")

	var storageErr *common.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "a.png", storageErr.Name)
}

func TestMediaService_UnknownSize(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocalStore(root, "uploads")
	require.NoError(t, err)
	svc := NewMediaService(store, 10)

	t.Run("over the cap is rejected and nothing is kept", func(t *testing.T) {
		ref, err := svc.Save(context.Background(), strings.NewReader(strings.Repeat("x", 100)), -1, "clip.mp4")

		assert.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Empty(t, ref)
		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("exactly the cap is stored whole", func(t *testing.T) {
		ref, err := svc.Save(context.Background(), strings.NewReader("0123456789"), -1, "clip.mp4")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(ref, "uploads/")))
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))
	})
}

func TestMediaService_UnderstatedSize(t *testing.T) {
	store := &stubStore{ref: "uploads/x.png"}
	svc := NewMediaService(store, 4)

	_, err := svc.Save(context.Background(), strings.NewReader("123456"), 2, "a.png")

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
