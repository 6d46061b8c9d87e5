package services

import (
	"suurdle/internal/models"

	"gorm.io/gorm"
)

// FanOutAssignment creates one unread notification per follower of the
// author who just posted the assignment. A failed insert is skipped, not
// rolled back: earlier notifications stay created. Returns how many rows
// were written and the first insert error, if any.
func FanOutAssignment(db *gorm.DB, sender string, assignmentID uint) (int, error) {
	var followers []string
	if err := db.Model(&models.Follow{}).Where("followed = ?", sender).
		Pluck("follower", &followers).Error; err != nil {
		return 0, err
	}

	created := 0
	var firstErr error
	for _, follower := range followers {
		notification := models.Notification{
			Sender:       sender,
			Receiver:     follower,
			AssignmentID: assignmentID,
		}
		if err := db.Create(&notification).Error; err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created++
	}
	return created, firstErr
}

// UnreadCount returns the number of unread notifications for a user.
func UnreadCount(db *gorm.DB, username string) int64 {
	var count int64
	db.Model(&models.Notification{}).
		Where("receiver = ? AND is_read = ?", username, false).
		Count(&count)
	return count
}
