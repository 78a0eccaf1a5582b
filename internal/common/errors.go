package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// Post errors
	ErrPostNotFound = errors.New("post not found")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCaption is wrapped by CaptionServiceError when the completion is blank
	ErrEmptyCaption = errors.New("caption service returned an empty caption")
)

// StorageError reports a failed media write. No post is created after one.
type StorageError struct {
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CaptionServiceError reports an unreachable, slow, or unusable completion service
type CaptionServiceError struct {
	Err error
}

func (e *CaptionServiceError) Error() string {
	return fmt.Sprintf("caption service error: %v", e.Err)
}

func (e *CaptionServiceError) Unwrap() error { return e.Err }

// RepositoryError reports a failed post store operation
type RepositoryError struct {
	Op     string
	PostID uint64
	Err    error
}

func (e *RepositoryError) Error() string {
	if e.PostID == 0 {
		return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("repository %s (post %d): %v", e.Op, e.PostID, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// NotificationError reports a failed mail delivery. It is logged, never returned to callers.
type NotificationError struct {
	Subject string
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %q failed: %v", e.Subject, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// IsStorageError checks if err is (or wraps) a StorageError
func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

// IsCaptionServiceError checks if err is (or wraps) a CaptionServiceError
func IsCaptionServiceError(err error) bool {
	var target *CaptionServiceError
	return errors.As(err, &target)
}

// IsRepositoryError checks if err is (or wraps) a RepositoryError
func IsRepositoryError(err error) bool {
	var target *RepositoryError
	return errors.As(err, &target)
}
