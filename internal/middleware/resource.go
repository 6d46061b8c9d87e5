package middleware

import (
	"errors"
	"net/http"
	"suurdle/internal/db"
	"suurdle/internal/models"
	"suurdle/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys for entities resolved from the URL. Each level's locator
// runs after its ancestors', so a handler behind FindAssignment can
// MustGet the domain and subject too.
const (
	DomainKey     = "found_domain"
	SubjectKey    = "found_subject"
	AssignmentKey = "found_assignment"
	CommentKey    = "found_comment"
)

// rejectNotFound ends the request without crashing it: flash + redirect
// back for browsers, {"error": ...} for AJAX callers.
func rejectNotFound(c *gin.Context, message string) {
	if IsAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"error": message})
	} else {
		Flash(c, FlashError, message)
		c.Redirect(http.StatusFound, backURL(c))
	}
	c.Abort()
}

func rejectForbidden(c *gin.Context) {
	if IsAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"error": "You don't have permission to do that"})
	} else {
		Flash(c, FlashError, "You don't have permission to do that")
		c.Redirect(http.StatusFound, backURL(c))
	}
	c.Abort()
}

func backURL(c *gin.Context) string {
	if ref := c.Request.Referer(); ref != "" {
		return ref
	}
	return "/"
}

// FindDomain resolves :domainSlug.
func FindDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		var domain models.Domain
		err := db.DB.Where("slug = ?", c.Param("domainSlug")).First(&domain).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejectNotFound(c, "Domain not found")
			return
		}
		if err != nil {
			rejectNotFound(c, "Something went wrong")
			return
		}
		c.Set(DomainKey, &domain)
		c.Next()
	}
}

// FindSubject resolves :subjectSlug within the found domain.
func FindSubject() gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.MustGet(DomainKey).(*models.Domain)

		var subject models.Subject
		err := db.DB.Where("slug = ? AND domain_id = ?", c.Param("subjectSlug"), domain.ID).
			First(&subject).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejectNotFound(c, "Subject not found")
			return
		}
		if err != nil {
			rejectNotFound(c, "Something went wrong")
			return
		}
		c.Set(SubjectKey, &subject)
		c.Next()
	}
}

// FindAssignment resolves :assignmentSlug within the found subject.
func FindAssignment() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.MustGet(SubjectKey).(*models.Subject)

		var assignment models.Assignment
		err := db.DB.Where("slug = ? AND subject_id = ?", c.Param("assignmentSlug"), subject.ID).
			First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejectNotFound(c, "Assignment not found")
			return
		}
		if err != nil {
			rejectNotFound(c, "Something went wrong")
			return
		}
		c.Set(AssignmentKey, &assignment)
		c.Next()
	}
}

// FindComment resolves :commentId within the found assignment. A comment
// id is unique across the whole reply tree but only addressable through
// its assignment, so the lookup is two-phase: direct comment first, then
// reply of one of the assignment's comments.
func FindComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		assignment := c.MustGet(AssignmentKey).(*models.Assignment)
		commentID := utils.StringToInt(c.Param("commentId"))

		var comment models.Comment
		err := db.DB.Where("id = ? AND target_id = ? AND target_kind = ?",
			commentID, assignment.ID, models.TargetAssignment).First(&comment).Error
		if err == nil {
			c.Set(CommentKey, &comment)
			c.Next()
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			rejectNotFound(c, "Something went wrong")
			return
		}

		// Not a direct comment, try the replies of this assignment's comments
		parents := db.DB.Model(&models.Comment{}).Select("id").
			Where("target_id = ? AND target_kind = ?", assignment.ID, models.TargetAssignment)
		err = db.DB.Where("id = ? AND target_kind = ? AND target_id IN (?)",
			commentID, models.TargetComment, parents).First(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejectNotFound(c, "Comment not found")
			return
		}
		if err != nil {
			rejectNotFound(c, "Something went wrong")
			return
		}
		c.Set(CommentKey, &comment)
		c.Next()
	}
}

// CheckDomainOwnership passes admins and the domain's creator.
func CheckDomainOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		domain := c.MustGet(DomainKey).(*models.Domain)
		if user.IsAdmin || user.ID == domain.CreatorID {
			c.Next()
			return
		}
		rejectForbidden(c)
	}
}

// CheckSubjectOwnership passes admins and the subject's creator.
func CheckSubjectOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		subject := c.MustGet(SubjectKey).(*models.Subject)
		if user.IsAdmin || user.ID == subject.CreatorID {
			c.Next()
			return
		}
		rejectForbidden(c)
	}
}

// CheckAssignmentOwnership passes admins and the assignment's author.
func CheckAssignmentOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		assignment := c.MustGet(AssignmentKey).(*models.Assignment)
		if user.IsAdmin || user.Username == assignment.Author {
			c.Next()
			return
		}
		rejectForbidden(c)
	}
}

// CheckCommentOwnership passes admins and the comment's author.
func CheckCommentOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		comment := c.MustGet(CommentKey).(*models.Comment)
		if user.IsAdmin || user.Username == comment.Author {
			c.Next()
			return
		}
		rejectForbidden(c)
	}
}
