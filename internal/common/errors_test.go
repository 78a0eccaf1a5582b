package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"storage", &StorageError{Name: "a.png", Err: cause}, IsStorageError},
		{"caption", &CaptionServiceError{Err: cause}, IsCaptionServiceError},
		{"repository", &RepositoryError{Op: "insert", Err: cause}, IsRepositoryError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.ErrorIs(t, wrapped, cause)
		})
	}
}

func TestRepositoryError_Message(t *testing.T) {
	assert.Equal(t, "repository list pending: boom", (&RepositoryError{Op: "list pending", Err: errors.New("boom")}).Error())
	assert.Equal(t, "repository approve (post 9): post not found",
		(&RepositoryError{Op: "approve", PostID: 9, Err: ErrPostNotFound}).Error())
}

func TestRepositoryError_IsPostNotFound(t *testing.T) {
	err := error(&RepositoryError{Op: "comment", PostID: 3, Err: ErrPostNotFound})
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.False(t, IsCaptionServiceError(err))
}
