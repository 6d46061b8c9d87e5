package models

import (
	"time"
)

type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Creator   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	DomainID  uint      `gorm:"not null;index" json:"domain_id"`
	Domain    Domain    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"domain"`
	ReferTo   string    `json:"refer_to"` // external url that helps verify the subject
	Verified  bool      `gorm:"default:false" json:"verified"`
	Slug      string    `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled at query time
	AssignmentCount int64 `gorm:"-" json:"assignment_count"`
}
