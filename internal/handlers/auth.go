package handlers

import (
	"fmt"
	"net/http"
	"time"

	"suurdle/internal/db"
	"suurdle/internal/middleware"
	"suurdle/internal/models"
	"suurdle/internal/services"
	"suurdle/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if username == "" || email == "" || password == "" {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Error": "All fields are required", "Username": username, "Email": email,
		})
		return
	}
	if len(password) < 6 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Error": "Password must be at least 6 characters", "Username": username, "Email": email,
		})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/register.html", gin.H{"Error": "Something went wrong"})
		return
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		FirstName: c.PostForm("firstName"),
		LastName:  c.PostForm("lastName"),
	}

	// Avatar is optional at signup
	if file, err := c.FormFile("avatar"); err == nil {
		if file.Size > services.MaxAttachmentSize {
			Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
				"Error": "Avatar image is too large (10MB max)", "Username": username, "Email": email,
			})
			return
		}
		result, err := services.Store.Upload(file)
		if err != nil {
			Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
				"Error": "Avatar upload failed", "Username": username, "Email": email,
			})
			return
		}
		user.AvatarURL = result.URL
		user.AvatarID = result.ObjectID
	}

	if err := db.DB.Create(&user).Error; err != nil {
		Render(c, http.StatusConflict, "auth/register.html", gin.H{
			"Error": "Username or email is already taken", "Username": username, "Email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	middleware.Flash(c, middleware.FlashSuccess, "Welcome to Suurdle, "+user.Username+"!")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Error": "Invalid username or password", "Username": username,
		})
		return
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Error": "Invalid username or password", "Username": username,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)

	// Send the user back to wherever AuthRequired bounced them from
	location := "/"
	if redirect, ok := session.Get("redirect_to").(string); ok && redirect != "" {
		location = redirect
		session.Delete("redirect_to")
	}
	session.Save()

	c.Redirect(http.StatusFound, location)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowForgotPassword(c *gin.Context) {
	Render(c, http.StatusOK, "auth/forgot_password.html", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := c.PostForm("email")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		// Don't reveal whether the account exists
		middleware.Flash(c, middleware.FlashSuccess, "If that email is registered, a reset link is on its way.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(time.Hour)
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expires
	if err := db.DB.Save(&user).Error; err != nil {
		Render(c, http.StatusInternalServerError, "auth/forgot_password.html", gin.H{"Error": "Something went wrong"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	resetLink := fmt.Sprintf("%s://%s/reset/%s", scheme, c.Request.Host, token)
	h.mailService.SendPasswordResetEmail(user.Email, resetLink)

	middleware.Flash(c, middleware.FlashSuccess, "If that email is registered, a reset link is on its way.")
	c.Redirect(http.StatusFound, "/login")
}

// findByResetToken loads the user for a token that has not expired yet.
func (h *AuthHandler) findByResetToken(token string) (*models.User, error) {
	var user models.User
	err := db.DB.Where("reset_password_token = ? AND reset_password_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) ShowResetPassword(c *gin.Context) {
	token := c.Param("token")
	if _, err := h.findByResetToken(token); err != nil {
		middleware.Flash(c, middleware.FlashError, "Password reset token is invalid or has expired")
		c.Redirect(http.StatusFound, "/forgot")
		return
	}
	Render(c, http.StatusOK, "auth/reset_password.html", gin.H{"Token": token})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm")

	user, err := h.findByResetToken(token)
	if err != nil {
		middleware.Flash(c, middleware.FlashError, "Password reset token is invalid or has expired")
		c.Redirect(http.StatusFound, "/forgot")
		return
	}

	if password == "" || password != confirm {
		Render(c, http.StatusBadRequest, "auth/reset_password.html", gin.H{
			"Error": "Passwords do not match", "Token": token,
		})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/reset_password.html", gin.H{
			"Error": "Something went wrong", "Token": token,
		})
		return
	}

	user.Password = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := db.DB.Save(user).Error; err != nil {
		Render(c, http.StatusInternalServerError, "auth/reset_password.html", gin.H{
			"Error": "Something went wrong", "Token": token,
		})
		return
	}

	h.mailService.SendPasswordChangedEmail(user.Email)

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	middleware.Flash(c, middleware.FlashSuccess, "Your password has been changed.")
	c.Redirect(http.StatusFound, "/")
}
