package handlers

import (
	"net/http"
	"suurdle/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render injects common variables like the current user and pending
// flash messages before handing off to the template.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	// Inject Current User
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["UnreadCount"] = int(count.(int64))
		} else {
			obj["UnreadCount"] = 0
		}
	}

	errors, successes := middleware.PopFlashes(c)
	obj["FlashErrors"] = errors
	obj["FlashSuccesses"] = successes

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError shows the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// fail reports a handler failure the way the client expects: JSON for
// AJAX requests, flash + redirect for browsers.
func fail(c *gin.Context, message, location string) {
	if middleware.IsAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"error": message})
		return
	}
	middleware.Flash(c, middleware.FlashError, message)
	c.Redirect(http.StatusFound, location)
}

// succeed mirrors fail for the happy path.
func succeed(c *gin.Context, message, location string) {
	if middleware.IsAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"redirect": location})
		return
	}
	if message != "" {
		middleware.Flash(c, middleware.FlashSuccess, message)
	}
	c.Redirect(http.StatusFound, location)
}
