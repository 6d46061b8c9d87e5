package handlers

import (
	"net/http"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// Create posts a top-level comment on the assignment.
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	showPath := assignmentPath(domain, subject, assignment)

	text := c.PostForm("text")
	if text == "" {
		fail(c, "Comment text is required", showPath)
		return
	}

	comment := models.Comment{
		Text:       text,
		Author:     user.Username,
		TargetID:   assignment.ID,
		TargetKind: models.TargetAssignment,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		fail(c, "Could not post comment", showPath)
		return
	}

	succeed(c, "", showPath)
}

// Reply posts a reply to a comment. Nesting stops at one level: replying
// to a reply attaches the new reply to the original comment instead.
func (h *CommentHandler) Reply(c *gin.Context) {
	user := middleware.CurrentUser(c)
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	parent := c.MustGet(middleware.CommentKey).(*models.Comment)
	showPath := assignmentPath(domain, subject, assignment)

	text := c.PostForm("text")
	if text == "" {
		fail(c, "Reply text is required", showPath)
		return
	}

	parentID := parent.ID
	if parent.IsReply() {
		parentID = parent.TargetID
	}

	reply := models.Comment{
		Text:       text,
		Author:     user.Username,
		TargetID:   parentID,
		TargetKind: models.TargetComment,
	}
	if err := db.DB.Create(&reply).Error; err != nil {
		fail(c, "Could not post reply", showPath)
		return
	}

	succeed(c, "", showPath)
}

func (h *CommentHandler) ShowEdit(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	comment := c.MustGet(middleware.CommentKey).(*models.Comment)

	Render(c, http.StatusOK, "comments/edit.html", gin.H{
		"Domain":     domain,
		"Subject":    subject,
		"Assignment": assignment,
		"Comment":    comment,
	})
}

func (h *CommentHandler) Update(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	comment := c.MustGet(middleware.CommentKey).(*models.Comment)
	showPath := assignmentPath(domain, subject, assignment)

	text := c.PostForm("text")
	if text == "" {
		fail(c, "Comment text is required", showPath)
		return
	}

	if err := db.DB.Model(comment).Update("text", text).Error; err != nil {
		fail(c, "Could not update comment", showPath)
		return
	}

	succeed(c, "", showPath)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	comment := c.MustGet(middleware.CommentKey).(*models.Comment)
	showPath := assignmentPath(domain, subject, assignment)

	result := services.DeleteComment(db.DB, comment.ID)
	if !result.OK() {
		fail(c, "Comment was removed but some replies could not be cleaned up", showPath)
		return
	}
	succeed(c, "", showPath)
}
