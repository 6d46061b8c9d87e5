package main

import (
	"fmt"
	"html/template"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"suurdle/internal/db"
	"suurdle/internal/handlers"
	"suurdle/internal/middleware"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("suurdle_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadUser())

	registerRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Suurdle server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func registerRoutes(r *gin.Engine) {
	// Handlers
	pageHandler := handlers.NewPageHandler()
	authHandler := handlers.NewAuthHandler()
	domainHandler := handlers.NewDomainHandler()
	subjectHandler := handlers.NewSubjectHandler()
	assignmentHandler := handlers.NewAssignmentHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler()

	auth := middleware.AuthRequired()

	// Public Routes
	r.GET("/", pageHandler.Home)
	r.GET("/contact", pageHandler.ShowContact)
	r.POST("/contact", pageHandler.Contact)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/forgot", authHandler.ShowForgotPassword)
	r.POST("/forgot", authHandler.ForgotPassword)
	r.GET("/reset/:token", authHandler.ShowResetPassword)
	r.POST("/reset/:token", authHandler.ResetPassword)

	// Users
	r.GET("/users/:userName", userHandler.Show)
	r.POST("/users/:userName/follow", auth, userHandler.Follow)
	r.POST("/users/:userName/unfollow", auth, userHandler.Unfollow)
	r.POST("/users/:userName/delete", auth, userHandler.Delete)

	// Notifications
	notifications := r.Group("/notifications", auth)
	{
		notifications.GET("", notificationHandler.Index)
		notifications.GET("/:id", notificationHandler.Show)
	}

	// Domains
	domains := r.Group("/domains")
	domains.GET("", domainHandler.Index)
	domains.GET("/new", auth, domainHandler.ShowNew)
	domains.POST("", auth, domainHandler.Create)

	d := domains.Group("/:domainSlug", middleware.FindDomain())
	{
		d.GET("", domainHandler.Show)
		d.GET("/edit", auth, middleware.CheckDomainOwnership(), domainHandler.ShowEdit)
		d.POST("/edit", auth, middleware.CheckDomainOwnership(), domainHandler.Update)
		d.POST("/delete", auth, middleware.CheckDomainOwnership(), domainHandler.Delete)
	}

	// Subjects
	subjects := d.Group("/subjects")
	subjects.GET("/new", auth, subjectHandler.ShowNew)
	subjects.POST("", auth, subjectHandler.Create)

	s := subjects.Group("/:subjectSlug", middleware.FindSubject())
	{
		s.GET("", subjectHandler.Show)
		s.GET("/edit", auth, middleware.CheckSubjectOwnership(), subjectHandler.ShowEdit)
		s.POST("/edit", auth, middleware.CheckSubjectOwnership(), subjectHandler.Update)
		s.POST("/delete", auth, middleware.CheckSubjectOwnership(), subjectHandler.Delete)
	}

	// Assignments
	assignments := s.Group("/assignments")
	assignments.GET("/new", auth, assignmentHandler.ShowNew)
	assignments.POST("", auth, assignmentHandler.Create)

	a := assignments.Group("/:assignmentSlug", middleware.FindAssignment())
	{
		a.GET("", assignmentHandler.Show)
		a.GET("/edit", auth, middleware.CheckAssignmentOwnership(), assignmentHandler.ShowEdit)
		a.POST("/edit", auth, middleware.CheckAssignmentOwnership(), assignmentHandler.Update)
		a.POST("/delete", auth, middleware.CheckAssignmentOwnership(), assignmentHandler.Delete)
		a.POST("/vote", auth, voteHandler.VoteAssignment)
	}

	// Comments and replies
	comments := a.Group("/comments")
	comments.POST("", auth, commentHandler.Create)

	cm := comments.Group("/:commentId", middleware.FindComment())
	{
		cm.POST("/reply", auth, commentHandler.Reply)
		cm.POST("/vote", auth, voteHandler.VoteComment)
		cm.GET("/edit", auth, middleware.CheckCommentOwnership(), commentHandler.ShowEdit)
		cm.POST("/edit", auth, middleware.CheckCommentOwnership(), commentHandler.Update)
		cm.POST("/delete", auth, middleware.CheckCommentOwnership(), commentHandler.Delete)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, templatesDir+"/views/"+view)
		return files
	}

	// FuncMap
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			var timeVal time.Time
			switch v := t.(type) {
			case time.Time:
				timeVal = v
			default:
				return ""
			}

			duration := time.Since(timeVal)
			seconds := int(duration.Seconds())

			if seconds < 60 {
				return fmt.Sprintf("%ds ago", seconds)
			} else if seconds < 3600 {
				return fmt.Sprintf("%dm ago", seconds/60)
			} else if seconds < 86400 {
				return fmt.Sprintf("%dh ago", seconds/3600)
			} else if seconds < 2592000 {
				return fmt.Sprintf("%dd ago", seconds/86400)
			} else if seconds < 31536000 {
				return fmt.Sprintf("%dmo ago", seconds/2592000)
			}
			return fmt.Sprintf("%dy ago", seconds/31536000)
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"urlquery": func(s string) string {
			return url.QueryEscape(s)
		},
	}

	views := []string{
		"home.html",
		"contact.html",
		"error.html",
		"auth/register.html",
		"auth/login.html",
		"auth/forgot_password.html",
		"auth/reset_password.html",
		"domains/index.html",
		"domains/new.html",
		"domains/show.html",
		"domains/edit.html",
		"subjects/new.html",
		"subjects/show.html",
		"subjects/edit.html",
		"assignments/new.html",
		"assignments/show.html",
		"assignments/edit.html",
		"comments/edit.html",
		"users/show.html",
		"notifications/index.html",
	}
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}

	return r
}
