package models

import (
	"time"
)

// Notification is one fan-out record: Sender posted the assignment,
// Receiver follows the sender.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Sender       string    `gorm:"not null" json:"sender"`
	Receiver     string    `gorm:"not null;index" json:"receiver"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	IsRead       bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}
