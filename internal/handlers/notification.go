package handlers

import (
	"net/http"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// notificationRow pairs a notification with the assignment it points
// at, so the template can print the title without extra lookups.
type notificationRow struct {
	Notification models.Notification
	Assignment   *models.Assignment
}

func (h *NotificationHandler) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var notifications []models.Notification
	if err := db.DB.Where("receiver = ?", user.Username).
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load notifications")
		return
	}

	rows := make([]notificationRow, 0, len(notifications))
	for _, n := range notifications {
		row := notificationRow{Notification: n}
		var assignment models.Assignment
		if err := db.DB.First(&assignment, n.AssignmentID).Error; err == nil {
			row.Assignment = &assignment
		}
		rows = append(rows, row)
	}

	Render(c, http.StatusOK, "notifications/index.html", gin.H{"Rows": rows})
}

// Show marks one notification read and jumps to its assignment.
func (h *NotificationHandler) Show(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.StringToInt(c.Param("id"))

	var notification models.Notification
	err := db.DB.Where("id = ? AND receiver = ?", id, user.Username).
		First(&notification).Error
	if err != nil {
		fail(c, "Notification not found", "/notifications")
		return
	}

	db.DB.Model(&notification).Update("is_read", true)

	// Rebuild the assignment URL from its slug chain
	var assignment models.Assignment
	if err := db.DB.Preload("Subject.Domain").
		First(&assignment, notification.AssignmentID).Error; err != nil {
		fail(c, "That assignment no longer exists", "/notifications")
		return
	}

	c.Redirect(http.StatusFound,
		assignmentPath(&assignment.Subject.Domain, &assignment.Subject, &assignment))
}
