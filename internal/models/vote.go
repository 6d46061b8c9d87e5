package models

import (
	"time"
)

// Vote attaches to an Assignment or a Comment. One row per
// (username, target) pair; direction changes mutate the row.
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"username"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"target_id"`
	TargetKind TargetKind `gorm:"size:20;not null;uniqueIndex:idx_vote_user_target;default:'Assignment'" json:"target_kind"`
	Upvote     bool       `gorm:"not null" json:"upvote"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
