package domain

import "time"

// Post is a captioned media item waiting in (or released from) the moderation queue
type Post struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Caption    string     `gorm:"column:caption;type:text;not null" json:"caption"`
	MediaPath  string     `gorm:"column:media_path;size:512;not null" json:"media_path"`
	Approved   bool       `gorm:"column:approved;not null;default:false;index" json:"approved"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	Comments   []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT" json:"comments"`
}

func (Post) TableName() string {
	return "posts"
}

// State returns the lifecycle state of the post
func (p Post) State() PostState {
	if p.Approved {
		return StateApproved
	}
	return StatePending
}

// Comment is one entry of a post's append-only comment log
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    uint64    `gorm:"column:post_id;not null;index" json:"post_id"`
	Author    string    `gorm:"column:author;size:100" json:"author"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Comment) TableName() string {
	return "post_comments"
}

// PostState is the moderation state of a post
type PostState string

const (
	StatePending  PostState = "pending"
	StateApproved PostState = "approved"
)

// CommentBodies returns the comment texts in log order
func (p *Post) CommentBodies() []string {
	bodies := make([]string, len(p.Comments))
	for i, c := range p.Comments {
		bodies[i] = c.Body
	}
	return bodies
}

// GenerateCaptionResponse is returned by POST /generate-caption
type GenerateCaptionResponse struct {
	Caption   string `json:"caption"`
	PostID    uint64 `json:"post_id"`
	MediaPath string `json:"media_path"`
}

// CaptionErrorResponse is returned by POST /generate-caption on failure
type CaptionErrorResponse struct {
	Error string `json:"error"`
}
