package models

import (
	"time"
)

type Assignment struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Author      string       `gorm:"not null;index" json:"author"` // username reference
	SubjectID   uint         `gorm:"not null;index" json:"subject_id"`
	Subject     Subject      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"subject"`
	Score       int          `gorm:"default:0" json:"score"`
	Slug        string       `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Attachments []Attachment `json:"attachments"`
	Tags        []Tag        `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Filled at query time
	CommentCount int64 `gorm:"-" json:"comment_count"`
}

// Attachment is an uploaded file living in the external object store.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	URL          string    `gorm:"not null" json:"url"`
	ObjectID     string    `gorm:"not null" json:"object_id"` // deletion handle
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type Tag struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	AssignmentID uint   `gorm:"not null;index" json:"assignment_id"`
	Name         string `gorm:"size:50;not null" json:"name"`
}
