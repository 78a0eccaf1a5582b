package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/domain"
	"github.com/damoang/caption-queue/internal/repository"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
)

// Notification subjects
const (
	SubjectPostApproved = "Post Approved"
	SubjectNewComment   = "New Comment on Post"
)

// Upload is one uploaded media file
type Upload struct {
	Body     io.Reader
	Size     int64 // -1 when unknown
	Filename string
}

// MediaSaver persists an upload and returns its reference path
type MediaSaver interface {
	Save(ctx context.Context, body io.Reader, size int64, originalName string) (string, error)
}

// ModerationService drives the post lifecycle: drafted, pending, approved
type ModerationService interface {
	GenerateAndQueue(ctx context.Context, upload Upload, prompt string) (*domain.GenerateCaptionResponse, error)
	Approve(ctx context.Context, id uint64, approver string) error
	Comment(ctx context.Context, id uint64, author, text string) error
	ListPending(ctx context.Context) ([]domain.Post, error)
}

type moderationService struct {
	media    MediaSaver
	captions CaptionClient
	posts    repository.PostRepository
	notifier Notifier
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	media MediaSaver,
	captions CaptionClient,
	posts repository.PostRepository,
	notifier Notifier,
) ModerationService {
	return &moderationService{
		media:    media,
		captions: captions,
		posts:    posts,
		notifier: notifier,
	}
}

// GenerateAndQueue stores the media, drafts a caption and inserts a pending post.
// A media or caption failure aborts before any post exists. Stored media is
// kept even when a later step fails.
func (s *moderationService) GenerateAndQueue(ctx context.Context, upload Upload, prompt string) (*domain.GenerateCaptionResponse, error) {
	if upload.Body == nil {
		return nil, fmt.Errorf("%w: media file is required", common.ErrInvalidInput)
	}

	mediaPath, err := s.media.Save(ctx, upload.Body, upload.Size, upload.Filename)
	if err != nil {
		return nil, err
	}

	caption, err := s.captions.Generate(ctx, prompt)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("media_path", mediaPath).Msg("caption failed, media left without post")
		return nil, err
	}

	id, err := s.posts.Insert(ctx, caption, mediaPath)
	if err != nil {
		return nil, err
	}
	postsQueuedTotal.Inc()

	pkglogger.GetLogger().Info().Uint64("post_id", id).Str("media_path", mediaPath).Msg("post queued for approval")

	return &domain.GenerateCaptionResponse{
		Caption:   caption,
		PostID:    id,
		MediaPath: mediaPath,
	}, nil
}

// Approve marks the post approved and notifies once. Approving an approved
// post succeeds and notifies again.
func (s *moderationService) Approve(ctx context.Context, id uint64, approver string) error {
	if err := s.posts.MarkApproved(ctx, id); err != nil {
		return err
	}
	postsApprovedTotal.Inc()

	s.notifier.Notify(SubjectPostApproved, fmt.Sprintf("Post ID %d was approved by %s.", id, approver))
	return nil
}

// Comment appends to the post's comment log and notifies once
func (s *moderationService) Comment(ctx context.Context, id uint64, author, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: comment is empty", common.ErrInvalidInput)
	}

	if err := s.posts.AppendComment(ctx, id, author, text); err != nil {
		return err
	}
	commentsTotal.Inc()

	s.notifier.Notify(SubjectNewComment, fmt.Sprintf("Post ID %d received comment:\n%s", id, text))
	return nil
}

// ListPending returns every unapproved post with its comments
func (s *moderationService) ListPending(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListPending(ctx)
}
