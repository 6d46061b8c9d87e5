package models

import (
	"time"
)

// TargetKind discriminates what a Comment or Vote is attached to.
type TargetKind string

const (
	TargetAssignment TargetKind = "Assignment"
	TargetComment    TargetKind = "Comment"
)

// Comment attaches to an Assignment, or to another Comment as a reply.
// Replies are kept one level deep: replying to a reply attaches to the
// reply's parent comment.
type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	Author     string     `gorm:"not null;index" json:"author"` // username reference
	TargetID   uint       `gorm:"not null;index:idx_comment_target" json:"target_id"`
	TargetKind TargetKind `gorm:"size:20;not null;index:idx_comment_target;default:'Assignment'" json:"target_kind"`
	Score      int        `gorm:"default:0" json:"score"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Filled at query time
	Replies []Comment `gorm:"-" json:"replies"`
}

// IsReply reports whether the comment sits under another comment.
func (c *Comment) IsReply() bool {
	return c.TargetKind == TargetComment
}
