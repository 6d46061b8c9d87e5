package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	FlashError   = "error"
	FlashSuccess = "success"
)

// Flash queues a one-shot message for the next rendered page.
func Flash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	session.Save()
}

// PopFlashes drains queued messages. Called once per rendered page.
func PopFlashes(c *gin.Context) (errors []string, successes []string) {
	session := sessions.Default(c)
	for _, f := range session.Flashes(FlashError) {
		if s, ok := f.(string); ok {
			errors = append(errors, s)
		}
	}
	for _, f := range session.Flashes(FlashSuccess) {
		if s, ok := f.(string); ok {
			successes = append(successes, s)
		}
	}
	session.Save()
	return errors, successes
}
