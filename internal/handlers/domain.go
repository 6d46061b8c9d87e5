package handlers

import (
	"net/http"
	"time"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"
	"suurdle/internal/utils"

	"github.com/gin-gonic/gin"
)

const domainIndexCacheKey = "domains:index:first"

type DomainHandler struct{}

func NewDomainHandler() *DomainHandler {
	return &DomainHandler{}
}

// Index lists domains, paginated, with an optional name search.
func (h *DomainHandler) Index(c *gin.Context) {
	search := c.Query("search")

	// The unfiltered first page is by far the hottest query
	cacheable := search == "" && c.DefaultQuery("page", "1") == "1"
	if cacheable {
		if cached := utils.GetCache().Get(domainIndexCacheKey); cached != nil {
			Render(c, http.StatusOK, "domains/index.html", cached.(gin.H))
			return
		}
	}

	query := db.DB.Model(&models.Domain{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)
	pagination, offset := paginate(c, total)

	var domains []models.Domain
	if err := query.Order("created_at DESC").Limit(perPage).Offset(offset).
		Preload("Creator").Find(&domains).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load domains")
		return
	}
	for i := range domains {
		db.DB.Model(&models.Subject{}).Where("domain_id = ?", domains[i].ID).
			Count(&domains[i].SubjectCount)
	}

	data := gin.H{"Domains": domains, "Pagination": pagination}
	if cacheable {
		utils.GetCache().Set(domainIndexCacheKey, data, 5*time.Minute)
	}
	Render(c, http.StatusOK, "domains/index.html", data)
}

func (h *DomainHandler) ShowNew(c *gin.Context) {
	Render(c, http.StatusOK, "domains/new.html", nil)
}

func (h *DomainHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	name := c.PostForm("name")
	if name == "" {
		fail(c, "Domain name is required", "/domains/new")
		return
	}

	slug, err := utils.UniqueSlug(db.DB, &models.Domain{}, 0, name)
	if err != nil {
		fail(c, "Could not create a unique address for that name", "/domains/new")
		return
	}

	domain := models.Domain{
		Name:      name,
		CreatorID: user.ID,
		ReferTo:   c.PostForm("referTo"),
		Slug:      slug,
	}
	if err := db.DB.Create(&domain).Error; err != nil {
		fail(c, "Could not create domain", "/domains/new")
		return
	}

	utils.GetCache().Delete(domainIndexCacheKey)
	succeed(c, "Domain created", "/domains/"+domain.Slug)
}

// Show lists the domain's subjects.
func (h *DomainHandler) Show(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	search := c.Query("search")

	query := db.DB.Model(&models.Subject{}).Where("domain_id = ?", domain.ID)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)
	pagination, offset := paginate(c, total)

	var subjects []models.Subject
	if err := query.Order("created_at DESC").Limit(perPage).Offset(offset).
		Preload("Creator").Find(&subjects).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load subjects")
		return
	}
	for i := range subjects {
		db.DB.Model(&models.Assignment{}).Where("subject_id = ?", subjects[i].ID).
			Count(&subjects[i].AssignmentCount)
	}

	Render(c, http.StatusOK, "domains/show.html", gin.H{
		"Domain":     domain,
		"Subjects":   subjects,
		"Pagination": pagination,
	})
}

func (h *DomainHandler) ShowEdit(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	Render(c, http.StatusOK, "domains/edit.html", gin.H{"Domain": domain})
}

func (h *DomainHandler) Update(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)
	name := c.PostForm("name")
	if name == "" {
		fail(c, "Domain name is required", "/domains/"+domain.Slug+"/edit")
		return
	}

	if name != domain.Name {
		slug, err := utils.UniqueSlug(db.DB, &models.Domain{}, domain.ID, name)
		if err != nil {
			fail(c, "Could not create a unique address for that name", "/domains/"+domain.Slug+"/edit")
			return
		}
		domain.Slug = slug
	}
	domain.Name = name
	domain.ReferTo = c.PostForm("referTo")

	// Only admins vouch for a domain
	if middleware.CurrentUser(c).IsAdmin {
		domain.Verified = c.PostForm("verified") == "on"
	}

	if err := db.DB.Save(domain).Error; err != nil {
		fail(c, "Could not update domain", "/domains/"+domain.Slug+"/edit")
		return
	}

	utils.GetCache().Delete(domainIndexCacheKey)
	succeed(c, "Domain updated", "/domains/"+domain.Slug)
}

func (h *DomainHandler) Delete(c *gin.Context) {
	domain := c.MustGet(middleware.DomainKey).(*models.Domain)

	result := services.DeleteDomain(db.DB, domain.ID)
	utils.GetCache().Delete(domainIndexCacheKey)
	if !result.OK() {
		fail(c, "Domain was removed but some of its content could not be cleaned up", "/domains")
		return
	}
	succeed(c, "Domain deleted", "/domains")
}
