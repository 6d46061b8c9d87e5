package models

import (
	"time"
)

type Domain struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Creator   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	ReferTo   string    `json:"refer_to"` // external url that helps verify the domain
	Verified  bool      `gorm:"default:false" json:"verified"`
	Slug      string    `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled at query time
	SubjectCount int64 `gorm:"-" json:"subject_count"`
}
