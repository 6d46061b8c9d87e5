package models

import (
	"strings"
	"time"
)

type User struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Username             string     `gorm:"uniqueIndex;not null" json:"username"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	Password             string     `gorm:"not null" json:"-"` // Hash
	FirstName            string     `gorm:"not null" json:"first_name"`
	LastName             string     `gorm:"not null" json:"last_name"`
	AvatarURL            string     `json:"avatar_url"`
	AvatarID             string     `json:"avatar_id"` // object store deletion handle
	IsAdmin              bool       `gorm:"default:false" json:"is_admin"`
	ResetPasswordToken   string     `gorm:"index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	// No DeletedAt for hard delete
}

// FullName is used by profile templates.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
