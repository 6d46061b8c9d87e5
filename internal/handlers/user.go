package handlers

import (
	"net/http"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Show renders a user's profile: their assignments and who follows them.
func (h *UserHandler) Show(c *gin.Context) {
	username := c.Param("userName")

	var profile models.User
	if err := db.DB.Where("username = ?", username).First(&profile).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	var assignments []models.Assignment
	db.DB.Where("author = ?", profile.Username).Order("created_at DESC").
		Preload("Subject").Find(&assignments)

	var followers []string
	db.DB.Model(&models.Follow{}).Where("followed = ?", profile.Username).
		Pluck("follower", &followers)

	isFollowing := false
	if user := middleware.CurrentUser(c); user != nil {
		var count int64
		db.DB.Model(&models.Follow{}).
			Where("follower = ? AND followed = ?", user.Username, profile.Username).
			Count(&count)
		isFollowing = count > 0
	}

	Render(c, http.StatusOK, "users/show.html", gin.H{
		"Profile":     &profile,
		"Assignments": assignments,
		"Followers":   followers,
		"IsFollowing": isFollowing,
	})
}

// Follow subscribes the current user to another user's assignments.
func (h *UserHandler) Follow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("userName")
	profilePath := "/users/" + username

	var followed models.User
	if err := db.DB.Where("username = ?", username).First(&followed).Error; err != nil {
		fail(c, "User not found", "/")
		return
	}

	if followed.Username == user.Username {
		fail(c, "You cannot follow yourself", profilePath)
		return
	}

	var count int64
	db.DB.Model(&models.Follow{}).
		Where("follower = ? AND followed = ?", user.Username, followed.Username).
		Count(&count)
	if count > 0 {
		fail(c, "You already follow "+followed.Username, profilePath)
		return
	}

	follow := models.Follow{Follower: user.Username, Followed: followed.Username}
	if err := db.DB.Create(&follow).Error; err != nil {
		fail(c, "Could not follow "+followed.Username, profilePath)
		return
	}

	succeed(c, "You are now following "+followed.Username, profilePath)
}

// Delete removes an account and everything it owns. Users may delete
// themselves; admins may delete anyone.
func (h *UserHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("userName")

	if !user.IsAdmin && user.Username != username {
		fail(c, "You don't have permission to do that", "/users/"+username)
		return
	}

	var target models.User
	if err := db.DB.Where("username = ?", username).First(&target).Error; err != nil {
		fail(c, "User not found", "/")
		return
	}

	result := services.DeleteUser(db.DB, &target)
	if !result.OK() {
		fail(c, "Account was removed but some content could not be cleaned up", "/")
		return
	}

	if user.Username == username {
		session := sessions.Default(c)
		session.Clear()
		session.Save()
	}
	succeed(c, "Account deleted", "/")
}

// Unfollow removes the subscription.
func (h *UserHandler) Unfollow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("userName")
	profilePath := "/users/" + username

	result := db.DB.Where("follower = ? AND followed = ?", user.Username, username).
		Delete(&models.Follow{})
	if result.Error != nil || result.RowsAffected == 0 {
		fail(c, "You are not following "+username, profilePath)
		return
	}

	succeed(c, "You no longer follow "+username, profilePath)
}
