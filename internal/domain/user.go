package domain

import "time"

// User is an operator allowed to use the moderation tool
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Principal is the authenticated identity attached to a request
type Principal struct {
	Username  string
	SessionID string
}
