package handlers

import (
	"net/http"

	"suurdle/internal/db"
	"suurdle/internal/models"
	"suurdle/internal/services"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the landing and contact pages.
type PageHandler struct {
	mailService *services.MailService
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		mailService: services.NewMailService(),
	}
}

func (h *PageHandler) Home(c *gin.Context) {
	var domains []models.Domain
	db.DB.Order("created_at DESC").Limit(perPage).Find(&domains)

	var assignments []models.Assignment
	db.DB.Order("created_at DESC").Limit(perPage).
		Preload("Subject.Domain").Find(&assignments)

	Render(c, http.StatusOK, "home.html", gin.H{
		"Domains":     domains,
		"Assignments": assignments,
	})
}

func (h *PageHandler) ShowContact(c *gin.Context) {
	Render(c, http.StatusOK, "contact.html", nil)
}

func (h *PageHandler) Contact(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	message := c.PostForm("message")

	if name == "" || email == "" || message == "" {
		Render(c, http.StatusBadRequest, "contact.html", gin.H{
			"Error": "All fields are required", "Name": name, "Email": email, "Message": message,
		})
		return
	}

	h.mailService.SendContactEmail(name, email, message)
	succeed(c, "Thanks! Your message has been sent.", "/contact")
}
