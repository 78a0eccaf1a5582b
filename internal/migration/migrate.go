package migration

import (
	"context"
	"fmt"

	"github.com/damoang/caption-queue/internal/config"
	"github.com/damoang/caption-queue/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the moderation tables.
func Run(db *gorm.DB) error {
	// 테이블 없으면 생성, 있으면 컬럼만 보강
	return db.AutoMigrate(&domain.User{}, &domain.Post{}, &domain.Comment{})
}

// SeedAdmin inserts the configured operator account when the users table is empty.
// Returns true when a user was created.
func SeedAdmin(ctx context.Context, db *gorm.DB, admin config.AdminConfig) (bool, error) {
	if admin.Username == "" || admin.Password == "" {
		return false, nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	user := &domain.User{Username: admin.Username, PasswordHash: string(hash)}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return false, err
	}
	return true, nil
}
