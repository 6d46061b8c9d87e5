package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/testutil"
	"suurdle/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	domain     models.Domain
	subject    models.Subject
	assignment models.Assignment
	comment    models.Comment
	reply      models.Comment
}

// seed fills the test database and points the package-global connection
// at it, since the middleware reads db.DB directly.
func seed(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.OpenDB(t)
	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = prev })

	f := &fixture{}
	f.domain = models.Domain{Name: "Math", Slug: "math-1000", CreatorID: 1}
	require.NoError(t, gdb.Create(&f.domain).Error)
	f.subject = models.Subject{Name: "Algebra", Slug: "algebra-1000", DomainID: f.domain.ID, CreatorID: 1}
	require.NoError(t, gdb.Create(&f.subject).Error)
	f.assignment = models.Assignment{Title: "Homework 1", Description: "d", Author: "alice", SubjectID: f.subject.ID, Slug: "homework-1-1000"}
	require.NoError(t, gdb.Create(&f.assignment).Error)
	f.comment = models.Comment{Text: "c", Author: "alice", TargetID: f.assignment.ID, TargetKind: models.TargetAssignment}
	require.NoError(t, gdb.Create(&f.comment).Error)
	f.reply = models.Comment{Text: "r", Author: "bob", TargetID: f.comment.ID, TargetKind: models.TargetComment}
	require.NoError(t, gdb.Create(&f.reply).Error)
	return f
}

// newRouter mounts the locator chain ending in a handler that proves it
// was reached. A non-nil user is injected as the session principal.
func newRouter(user *models.User, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.CheckUserKey, user)
			c.Next()
		})
	}

	chain := []gin.HandlerFunc{
		middleware.FindDomain(),
		middleware.FindSubject(),
		middleware.FindAssignment(),
		middleware.FindComment(),
	}
	chain = append(chain, extra...)
	chain = append(chain, func(c *gin.Context) {
		comment := c.MustGet(middleware.CommentKey).(*models.Comment)
		c.JSON(http.StatusOK, gin.H{"id": comment.ID})
	})
	r.GET("/domains/:domainSlug/subjects/:subjectSlug/assignments/:assignmentSlug/comments/:commentId", chain...)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func getAJAX(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	r.ServeHTTP(w, req)
	return w
}

func (f *fixture) path(commentID uint) string {
	return "/domains/" + f.domain.Slug + "/subjects/" + f.subject.Slug +
		"/assignments/" + f.assignment.Slug + "/comments/" + utils.IntToString(int(commentID))
}

func TestLocatorChainResolvesDirectComment(t *testing.T) {
	f := seed(t)
	r := newRouter(nil)

	w := get(r, f.path(f.comment.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id"`)
}

func TestLocatorChainResolvesReplyThroughParent(t *testing.T) {
	f := seed(t)
	r := newRouter(nil)

	w := get(r, f.path(f.reply.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocatorChainRejectsUnknownDomain(t *testing.T) {
	f := seed(t)
	r := newRouter(nil)

	path := "/domains/nope/subjects/" + f.subject.Slug +
		"/assignments/" + f.assignment.Slug + "/comments/1"
	w := getAJAX(r, path)
	assert.Contains(t, w.Body.String(), "Domain not found")

	// Browser requests bounce back with a redirect instead
	w = get(r, path)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLocatorChainRejectsForeignComment(t *testing.T) {
	f := seed(t)
	gdb := db.DB

	// A comment on some other assignment must not resolve through this one
	other := models.Assignment{Title: "Other", Description: "d", Author: "alice", SubjectID: f.subject.ID, Slug: "other-1000"}
	require.NoError(t, gdb.Create(&other).Error)
	foreign := models.Comment{Text: "x", Author: "bob", TargetID: other.ID, TargetKind: models.TargetAssignment}
	require.NoError(t, gdb.Create(&foreign).Error)

	r := newRouter(nil)
	w := getAJAX(r, f.path(foreign.ID))
	assert.Contains(t, w.Body.String(), "Comment not found")
}

func TestCommentOwnershipAcceptsAuthor(t *testing.T) {
	f := seed(t)
	author := &models.User{ID: 7, Username: "alice"}
	r := newRouter(author, middleware.CheckCommentOwnership())

	w := get(r, f.path(f.comment.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentOwnershipAcceptsAdmin(t *testing.T) {
	f := seed(t)
	admin := &models.User{ID: 8, Username: "root", IsAdmin: true}
	r := newRouter(admin, middleware.CheckCommentOwnership())

	w := get(r, f.path(f.comment.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentOwnershipRejectsStranger(t *testing.T) {
	f := seed(t)
	stranger := &models.User{ID: 9, Username: "mallory"}
	r := newRouter(stranger, middleware.CheckCommentOwnership())

	w := getAJAX(r, f.path(f.comment.ID))
	assert.Contains(t, w.Body.String(), "permission")
}

func TestAssignmentOwnershipRejectsStranger(t *testing.T) {
	f := seed(t)
	stranger := &models.User{ID: 9, Username: "mallory"}
	r := newRouter(stranger, middleware.CheckAssignmentOwnership())

	w := getAJAX(r, f.path(f.comment.ID))
	assert.Contains(t, w.Body.String(), "permission")
}

func TestDomainOwnershipAcceptsCreator(t *testing.T) {
	f := seed(t)
	creator := &models.User{ID: 1, Username: "alice"}
	r := newRouter(creator, middleware.CheckDomainOwnership(), middleware.CheckSubjectOwnership())

	w := get(r, f.path(f.comment.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	seed(t)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.GET("/private", middleware.AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := get(r, "/private")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = getAJAX(r, "/private")
	assert.Contains(t, w.Body.String(), "/login")
}
