package handlers

import (
	"net/http"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// vote runs the toggle and answers with the new score. AJAX callers get
// it as JSON; plain forms bounce back to the assignment page.
func (h *VoteHandler) vote(c *gin.Context, kind models.TargetKind, targetID uint) {
	user := middleware.CurrentUser(c)
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	showPath := assignmentPath(domain, subject, assignment)

	like := c.PostForm("like")
	if like != "1" && like != "0" {
		fail(c, "Invalid vote direction", showPath)
		return
	}

	score, err := services.ApplyVote(db.DB, user.Username, kind, targetID, like == "1")
	if err != nil {
		fail(c, "Could not record vote", showPath)
		return
	}

	if middleware.IsAJAX(c) {
		up, down := services.CountVotes(db.DB, kind, targetID)
		c.JSON(http.StatusOK, gin.H{"score": score, "likes": up, "dislikes": down})
		return
	}
	c.Redirect(http.StatusFound, showPath)
}

func (h *VoteHandler) VoteAssignment(c *gin.Context) {
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	h.vote(c, models.TargetAssignment, assignment.ID)
}

func (h *VoteHandler) VoteComment(c *gin.Context) {
	comment := c.MustGet(middleware.CommentKey).(*models.Comment)
	h.vote(c, models.TargetComment, comment.ID)
}
