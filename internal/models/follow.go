package models

import (
	"time"
)

// Follow is a (follower, followed) username edge. Self-follow is rejected
// at the route layer, not the schema.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Follower  string    `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower"`
	Followed  string    `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followed"`
	CreatedAt time.Time `json:"created_at"`
}
