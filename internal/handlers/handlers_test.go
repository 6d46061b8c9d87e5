package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"suurdle/internal/db"
	"suurdle/internal/handlers"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/testutil"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type webFixture struct {
	domain     models.Domain
	subject    models.Subject
	assignment models.Assignment
}

func seedWeb(t *testing.T) *webFixture {
	t.Helper()
	gdb := testutil.OpenDB(t)
	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = prev })

	f := &webFixture{}
	f.domain = models.Domain{Name: "Math", Slug: "math-1000", CreatorID: 1}
	require.NoError(t, gdb.Create(&f.domain).Error)
	f.subject = models.Subject{Name: "Algebra", Slug: "algebra-1000", DomainID: f.domain.ID, CreatorID: 1}
	require.NoError(t, gdb.Create(&f.subject).Error)
	f.assignment = models.Assignment{Title: "Homework 1", Description: "d", Author: "alice", SubjectID: f.subject.ID, Slug: "homework-1-1000"}
	require.NoError(t, gdb.Create(&f.assignment).Error)
	return f
}

// newWebRouter mounts the edit and vote routes the way main does, with
// the given user as the session principal.
func newWebRouter(user *models.User) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CheckUserKey, user)
		c.Next()
	})

	domainHandler := handlers.NewDomainHandler()
	subjectHandler := handlers.NewSubjectHandler()
	voteHandler := handlers.NewVoteHandler()

	d := r.Group("/domains/:domainSlug", middleware.FindDomain())
	d.POST("/edit", middleware.CheckDomainOwnership(), domainHandler.Update)

	s := d.Group("/subjects/:subjectSlug", middleware.FindSubject())
	s.POST("/edit", middleware.CheckSubjectOwnership(), subjectHandler.Update)

	a := s.Group("/assignments/:assignmentSlug", middleware.FindAssignment())
	a.POST("/vote", voteHandler.VoteAssignment)

	return r
}

func postForm(r *gin.Engine, path string, form url.Values, ajax bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestDomainUpdateAdminSetsVerified(t *testing.T) {
	f := seedWeb(t)
	admin := &models.User{ID: 9, Username: "root", IsAdmin: true}
	r := newWebRouter(admin)

	w := postForm(r, "/domains/"+f.domain.Slug+"/edit", url.Values{
		"name":     {f.domain.Name},
		"referTo":  {"https://maths.example.org"},
		"verified": {"on"},
	}, false)
	assert.Equal(t, http.StatusFound, w.Code)

	var reloaded models.Domain
	require.NoError(t, db.DB.First(&reloaded, f.domain.ID).Error)
	assert.True(t, reloaded.Verified)
	assert.Equal(t, "https://maths.example.org", reloaded.ReferTo)
}

func TestDomainUpdateCreatorCannotVerify(t *testing.T) {
	f := seedWeb(t)
	creator := &models.User{ID: 1, Username: "alice"}
	r := newWebRouter(creator)

	w := postForm(r, "/domains/"+f.domain.Slug+"/edit", url.Values{
		"name":     {"Mathematics"},
		"verified": {"on"},
	}, false)
	assert.Equal(t, http.StatusFound, w.Code)

	var reloaded models.Domain
	require.NoError(t, db.DB.First(&reloaded, f.domain.ID).Error)
	assert.Equal(t, "Mathematics", reloaded.Name)
	assert.False(t, reloaded.Verified, "verification is admin-only")
}

func TestSubjectUpdatePersistsReferToAndVerified(t *testing.T) {
	f := seedWeb(t)
	admin := &models.User{ID: 9, Username: "root", IsAdmin: true}
	r := newWebRouter(admin)

	path := "/domains/" + f.domain.Slug + "/subjects/" + f.subject.Slug + "/edit"
	w := postForm(r, path, url.Values{
		"name":     {f.subject.Name},
		"referTo":  {"https://algebra.example.org"},
		"verified": {"on"},
	}, false)
	assert.Equal(t, http.StatusFound, w.Code)

	var reloaded models.Subject
	require.NoError(t, db.DB.First(&reloaded, f.subject.ID).Error)
	assert.Equal(t, "https://algebra.example.org", reloaded.ReferTo)
	assert.True(t, reloaded.Verified)
}

func TestVoteEndpointReturnsScoreAndCounts(t *testing.T) {
	f := seedWeb(t)
	path := "/domains/" + f.domain.Slug + "/subjects/" + f.subject.Slug +
		"/assignments/" + f.assignment.Slug + "/vote"

	bob := &models.User{ID: 2, Username: "bob"}
	w := postForm(newWebRouter(bob), path, url.Values{"like": {"1"}}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"score": 1, "likes": 1, "dislikes": 0}`, w.Body.String())

	carol := &models.User{ID: 3, Username: "carol"}
	w = postForm(newWebRouter(carol), path, url.Values{"like": {"0"}}, true)
	assert.JSONEq(t, `{"score": 0, "likes": 1, "dislikes": 1}`, w.Body.String())
}
