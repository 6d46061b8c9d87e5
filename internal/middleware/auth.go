package middleware

import (
	"net/http"
	"suurdle/internal/db"
	"suurdle/internal/models"
	"suurdle/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const UnreadCountKey = "unread_count"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); exists {
			c.Next()
			return
		}

		// Remember where the user wanted to go
		session := sessions.Default(c)
		session.Set("redirect_to", c.Request.URL.RequestURI())
		session.Save()

		if IsAJAX(c) {
			c.JSON(http.StatusOK, gin.H{"error": "You need to be logged in to do that", "redirect": "/login"})
		} else {
			Flash(c, FlashError, "You need to be logged in to do that")
			c.Redirect(http.StatusFound, "/login")
		}
		c.Abort()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
				c.Set(UnreadCountKey, services.UnreadCount(db.DB, user.Username))
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// IsAJAX mirrors express' req.xhr: programmatic callers get JSON error
// payloads instead of flash + redirect.
func IsAJAX(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
