package handlers

import (
	"net/http"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"
	"suurdle/internal/utils"

	"github.com/gin-gonic/gin"
)

type SubjectHandler struct{}

func NewSubjectHandler() *SubjectHandler {
	return &SubjectHandler{}
}

func subjectPath(domain *models.Domain, subject *models.Subject) string {
	return "/domains/" + domain.Slug + "/subjects/" + subject.Slug
}

func (h *SubjectHandler) ShowNew(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	Render(c, http.StatusOK, "subjects/new.html", gin.H{"Domain": domain})
}

func (h *SubjectHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)

	name := c.PostForm("name")
	if name == "" {
		fail(c, "Subject name is required", "/domains/"+domain.Slug+"/subjects/new")
		return
	}

	slug, err := utils.UniqueSlug(db.DB, &models.Subject{}, 0, name)
	if err != nil {
		fail(c, "Could not create a unique address for that name", "/domains/"+domain.Slug+"/subjects/new")
		return
	}

	subject := models.Subject{
		Name:      name,
		CreatorID: user.ID,
		DomainID:  domain.ID,
		ReferTo:   c.PostForm("referTo"),
		Slug:      slug,
	}
	if err := db.DB.Create(&subject).Error; err != nil {
		fail(c, "Could not create subject", "/domains/"+domain.Slug+"/subjects/new")
		return
	}

	succeed(c, "Subject created", subjectPath(domain, &subject))
}

// Show lists the subject's assignments.
func (h *SubjectHandler) Show(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	search := c.Query("search")

	query := db.DB.Model(&models.Assignment{}).Where("subject_id = ?", subject.ID)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)
	pagination, offset := paginate(c, total)

	var assignments []models.Assignment
	if err := query.Order("created_at DESC").Limit(perPage).Offset(offset).
		Find(&assignments).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load assignments")
		return
	}
	for i := range assignments {
		db.DB.Model(&models.Comment{}).
			Where("target_id = ? AND target_kind = ?", assignments[i].ID, models.TargetAssignment).
			Count(&assignments[i].CommentCount)
	}

	Render(c, http.StatusOK, "subjects/show.html", gin.H{
		"Domain":      domain,
		"Subject":     subject,
		"Assignments": assignments,
		"Pagination":  pagination,
	})
}

func (h *SubjectHandler) ShowEdit(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)
	Render(c, http.StatusOK, "subjects/edit.html", gin.H{"Domain": domain, "Subject": subject})
}

func (h *SubjectHandler) Update(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)

	name := c.PostForm("name")
	if name == "" {
		fail(c, "Subject name is required", subjectPath(domain, subject)+"/edit")
		return
	}

	if name != subject.Name {
		slug, err := utils.UniqueSlug(db.DB, &models.Subject{}, subject.ID, name)
		if err != nil {
			fail(c, "Could not create a unique address for that name", subjectPath(domain, subject)+"/edit")
			return
		}
		subject.Slug = slug
	}
	subject.Name = name
	subject.ReferTo = c.PostForm("referTo")

	// Only admins vouch for a subject
	if middleware.CurrentUser(c).IsAdmin {
		subject.Verified = c.PostForm("verified") == "on"
	}

	if err := db.DB.Save(subject).Error; err != nil {
		fail(c, "Could not update subject", subjectPath(domain, subject)+"/edit")
		return
	}

	succeed(c, "Subject updated", subjectPath(domain, subject))
}

func (h *SubjectHandler) Delete(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	subject := c.MustGet(middleware.SubjectKey).(*models.Subject)

	result := services.DeleteSubject(db.DB, subject.ID)
	if !result.OK() {
		fail(c, "Subject was removed but some of its content could not be cleaned up", "/domains/"+domain.Slug)
		return
	}
	succeed(c, "Subject deleted", "/domains/"+domain.Slug)
}
