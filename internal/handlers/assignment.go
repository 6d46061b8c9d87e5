package handlers

import (
	"net/http"
	"strings"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"
	"suurdle/internal/utils"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct{}

func NewAssignmentHandler() *AssignmentHandler {
	return &AssignmentHandler{}
}

func assignmentPath(domain *models.Domain, subject *models.Subject, assignment *models.Assignment) string {
	return subjectPath(domain, subject) + "/assignments/" + assignment.Slug
}

// parseTags splits a comma separated tag field, dropping empties.
func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// uploadAttachments pushes every "attachments" file to storage. The
// size check runs before any upload so a rejected request leaves no
// orphaned objects.
func uploadAttachments(c *gin.Context) ([]models.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File["attachments"]
	for _, file := range files {
		if file.Size > services.MaxAttachmentSize {
			return nil, services.ErrAttachmentTooLarge
		}
	}

	var attachments []models.Attachment
	for _, file := range files {
		result, err := services.Store.Upload(file)
		if err != nil {
			return attachments, err
		}
		attachments = append(attachments, models.Attachment{
			URL:      result.URL,
			ObjectID: result.ObjectID,
			Name:     result.Name,
			MimeType: result.MimeType,
		})
	}
	return attachments, nil
}

func (h *AssignmentHandler) ShowNew(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	Render(c, http.StatusOK, "assignments/new.html", gin.H{"Domain": domain, "Subject": subject})
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	newPath := subjectPath(domain, subject) + "/assignments/new"

	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		fail(c, "Title and description are required", newPath)
		return
	}

	slug, err := utils.UniqueSlug(db.DB, &models.Assignment{}, 0, title)
	if err != nil {
		fail(c, "Could not create a unique address for that title", newPath)
		return
	}

	attachments, err := uploadAttachments(c)
	if err != nil {
		for _, a := range attachments {
			services.Store.Delete(a.ObjectID)
		}
		fail(c, "Attachment upload failed (10MB per file max)", newPath)
		return
	}

	assignment := models.Assignment{
		Title:       title,
		Description: description,
		Author:      user.Username,
		SubjectID:   subject.ID,
		Slug:        slug,
		Attachments: attachments,
	}
	for _, tag := range parseTags(c.PostForm("tags")) {
		assignment.Tags = append(assignment.Tags, models.Tag{Name: tag})
	}

	if err := db.DB.Create(&assignment).Error; err != nil {
		fail(c, "Could not create assignment", newPath)
		return
	}

	// Every follower of the author gets pinged
	services.FanOutAssignment(db.DB, user.Username, assignment.ID)

	succeed(c, "Assignment created", assignmentPath(domain, subject, &assignment))
}

func (h *AssignmentHandler) Show(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)

	if err := db.DB.Preload("Attachments").Preload("Tags").
		First(assignment, assignment.ID).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load assignment")
		return
	}

	var comments []models.Comment
	if err := db.DB.Where("target_id = ? AND target_kind = ?", assignment.ID, models.TargetAssignment).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load comments")
		return
	}
	for i := range comments {
		db.DB.Where("target_id = ? AND target_kind = ?", comments[i].ID, models.TargetComment).
			Order("created_at ASC").Find(&comments[i].Replies)
	}

	// The current user's votes, so the templates can mark active arrows
	userVotes := map[string]bool{}
	if user := middleware.CurrentUser(c); user != nil {
		var votes []models.Vote
		db.DB.Where("username = ?", user.Username).Find(&votes)
		for _, v := range votes {
			key := string(v.TargetKind) + ":" + utils.IntToString(int(v.TargetID))
			userVotes[key] = v.Upvote
		}
	}

	likes, dislikes := services.CountVotes(db.DB, models.TargetAssignment, assignment.ID)

	Render(c, http.StatusOK, "assignments/show.html", gin.H{
		"Domain":          domain,
		"Subject":         subject,
		"Assignment":      assignment,
		"Comments":        comments,
		"UserVotes":       userVotes,
		"Likes":           likes,
		"Dislikes":        dislikes,
		"DescriptionHTML": utils.RenderMarkdown(assignment.Description),
	})
}

func (h *AssignmentHandler) ShowEdit(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)

	db.DB.Preload("Attachments").Preload("Tags").First(assignment, assignment.ID)

	Render(c, http.StatusOK, "assignments/edit.html", gin.H{
		"Domain": domain, "Subject": subject, "Assignment": assignment,
	})
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)
	editPath := assignmentPath(domain, subject, assignment) + "/edit"

	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		fail(c, "Title and description are required", editPath)
		return
	}

	if title != assignment.Title {
		slug, err := utils.UniqueSlug(db.DB, &models.Assignment{}, assignment.ID, title)
		if err != nil {
			fail(c, "Could not create a unique address for that title", editPath)
			return
		}
		assignment.Slug = slug
	}
	assignment.Title = title
	assignment.Description = description

	// Drop the attachments the form unchecked
	for _, raw := range c.PostFormArray("removeAttachments") {
		id := utils.StringToInt(raw)
		var attachment models.Attachment
		if err := db.DB.Where("id = ? AND assignment_id = ?", id, assignment.ID).
			First(&attachment).Error; err != nil {
			continue
		}
		services.Store.Delete(attachment.ObjectID)
		db.DB.Delete(&attachment)
	}

	added, err := uploadAttachments(c)
	if err != nil {
		for _, a := range added {
			services.Store.Delete(a.ObjectID)
		}
		fail(c, "Attachment upload failed (10MB per file max)", editPath)
		return
	}
	for i := range added {
		added[i].AssignmentID = assignment.ID
	}
	if len(added) > 0 {
		if err := db.DB.Create(&added).Error; err != nil {
			fail(c, "Could not save attachments", editPath)
			return
		}
	}

	// Tags are replaced wholesale
	db.DB.Where("assignment_id = ?", assignment.ID).Delete(&models.Tag{})
	for _, tag := range parseTags(c.PostForm("tags")) {
		db.DB.Create(&models.Tag{AssignmentID: assignment.ID, Name: tag})
	}

	if err := db.DB.Save(assignment).Error; err != nil {
		fail(c, "Could not update assignment", editPath)
		return
	}

	succeed(c, "Assignment updated", assignmentPath(domain, subject, assignment))
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	assignment := c.MustGet(middleware.AssignmentKey).(*models.Assignment)

	result := services.DeleteAssignment(db.DB, assignment.ID)
	if !result.OK() {
		fail(c, "Assignment was removed but some of its content could not be cleaned up", subjectPath(domain, subject))
		return
	}
	succeed(c, "Assignment deleted", subjectPath(domain, subject))
}
