package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "clip.mp4", ".mp4"},
		{"uppercase", "PHOTO.JPG", ".jpg"},
		{"no extension", "README", ""},
		{"directory parts", "../../etc/passwd.png", ".png"},
		{"bad characters", "evil.p$p", ""},
		{"trailing dot", "file.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ext(tt.input))
		})
	}
}

func TestLocalStore_IdenticalNamesGetDistinctPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "uploads")
	require.NoError(t, err)

	first, err := store.Save(context.Background(), strings.NewReader("one"), "clip.mp4")
	require.NoError(t, err)
	second, err := store.Save(context.Background(), strings.NewReader("two"), "clip.mp4")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "uploads/"))
	assert.Equal(t, ".mp4", filepath.Ext(first))
	assert.Equal(t, ".mp4", filepath.Ext(second))

	data, err := os.ReadFile(filepath.Join(store.Root(), filepath.Base(first)))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestLocalStore_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "uploads")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = store.Save(context.Background(), strings.NewReader("x"), "a.png")
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLocalStore_CopyFailureLeavesNoFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), failingReader{}, "a.png")
	require.Error(t, err)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type fakePutter struct {
	keys []string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.Copy(io.Discard, in.Body)
	f.keys = append(f.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Client_Save(t *testing.T) {
	putter := &fakePutter{}
	client := NewS3ClientWith(putter, S3Config{Bucket: "media", BasePath: "captions/", CDNURL: "https://cdn.example.com/"})

	ref, err := client.Save(context.Background(), strings.NewReader("data"), "clip.MOV")
	require.NoError(t, err)

	require.Len(t, putter.keys, 1)
	assert.True(t, strings.HasPrefix(putter.keys[0], "captions/media/"))
	assert.True(t, strings.HasSuffix(putter.keys[0], ".mov"))
	assert.Equal(t, "https://cdn.example.com/"+putter.keys[0], ref)
}

func TestS3Client_SaveError(t *testing.T) {
	client := NewS3ClientWith(&fakePutter{err: errors.New("access denied")}, S3Config{Bucket: "media"})

	_, err := client.Save(context.Background(), strings.NewReader("data"), "a.png")
	assert.ErrorContains(t, err, "access denied")
}
