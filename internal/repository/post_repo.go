package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 게시글 저장소 인터페이스
type PostRepository interface {
	// 조회
	ListPending(ctx context.Context) ([]domain.Post, error)
	FindByID(ctx context.Context, id uint64) (*domain.Post, error)

	// 작성/상태 변경
	Insert(ctx context.Context, caption, mediaPath string) (uint64, error)
	MarkApproved(ctx context.Context, id uint64) error
	AppendComment(ctx context.Context, id uint64, author, body string) error
}

// postRepository GORM 구현체
type postRepository struct {
	db    *gorm.DB
	locks *rowLocks
	now   func() time.Time
}

// NewPostRepository 생성자
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, locks: newRowLocks(), now: time.Now}
}

// Insert creates a pending post in a single statement, so the row is complete
// the moment it becomes visible.
func (r *postRepository) Insert(ctx context.Context, caption, mediaPath string) (uint64, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return 0, &common.RepositoryError{Op: "insert", Err: common.ErrInvalidInput}
	}

	post := &domain.Post{
		Caption:   caption,
		MediaPath: mediaPath,
		Approved:  false,
		CreatedAt: r.now(),
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return 0, &common.RepositoryError{Op: "insert", Err: err}
	}
	return post.ID, nil
}

// ListPending returns unapproved posts with their comments, read in one transaction
func (r *postRepository) ListPending(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
			Where("approved = ?", false).
			Order("id ASC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, &common.RepositoryError{Op: "list pending", Err: err}
	}

	for i := range posts {
		if posts[i].Comments == nil {
			posts[i].Comments = []domain.Comment{}
		}
	}
	return posts, nil
}

// FindByID 게시글 상세 조회 (댓글 포함)
func (r *postRepository) FindByID(ctx context.Context, id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.RepositoryError{Op: "find", PostID: id, Err: common.ErrPostNotFound}
		}
		return nil, &common.RepositoryError{Op: "find", PostID: id, Err: err}
	}
	if post.Comments == nil {
		post.Comments = []domain.Comment{}
	}
	return &post, nil
}

// MarkApproved flips approved to true. Approving an approved post is a no-op;
// nothing in this repository ever writes approved = false.
func (r *postRepository) MarkApproved(ctx context.Context, id uint64) error {
	db := r.db.WithContext(ctx)

	result := db.Model(&domain.Post{}).
		Where("id = ? AND approved = ?", id, false).
		Updates(map[string]interface{}{
			"approved":    true,
			"approved_at": r.now(),
		})
	if result.Error != nil {
		return &common.RepositoryError{Op: "approve", PostID: id, Err: result.Error}
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing changed: either already approved or unknown id
	var count int64
	if err := db.Model(&domain.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return &common.RepositoryError{Op: "approve", PostID: id, Err: err}
	}
	if count == 0 {
		return &common.RepositoryError{Op: "approve", PostID: id, Err: common.ErrPostNotFound}
	}
	return nil
}

// AppendComment adds one entry to the comment log of a post.
// Appends on the same id are serialized by the row lock map and by a locking
// read of the post row; appends on different ids proceed independently.
func (r *postRepository) AppendComment(ctx context.Context, id uint64, author, body string) error {
	unlock := r.locks.Lock(id)
	defer unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrPostNotFound
			}
			return err
		}

		return tx.Create(&domain.Comment{
			PostID:    id,
			Author:    author,
			Body:      body,
			CreatedAt: r.now(),
		}).Error
	})
	if err != nil {
		return &common.RepositoryError{Op: "comment", PostID: id, Err: err}
	}
	return nil
}
