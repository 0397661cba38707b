package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bantu/internal/middleware"
	"bantu/internal/models"
	"bantu/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// rememberMaxAge keeps the session cookie alive for 30 days when the user
// ticks "remember me"; otherwise the cookie dies with the browser session.
const rememberMaxAge = 30 * 24 * 60 * 60

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if username == "" || email == "" || password == "" {
		AddFlash(c, "danger", "All fields are required!")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if password != confirm {
		AddFlash(c, "danger", "Passwords do not match!")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	var existing models.User
	if err := h.db.Where("username = ?", username).First(&existing).Error; err == nil {
		AddFlash(c, "danger", "Username already exists!")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		AddFlash(c, "danger", "Email already registered!")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not create account.")
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := h.db.Create(&user).Error; err != nil {
		// Lost a race against a concurrent registration with the same
		// username or email; report it like the pre-checks above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			AddFlash(c, "danger", "Username or email already taken!")
			c.Redirect(http.StatusFound, "/register")
			return
		}
		utils.Sugar.Errorw("register failed", "error", err)
		RenderError(c, http.StatusInternalServerError, "Could not create account.")
		return
	}

	AddFlash(c, "success", "Account created successfully! Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Next": c.Query("next")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	remember := c.PostForm("remember") != ""

	var user models.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if err != nil || !utils.CheckPasswordHash(password, user.Password) {
		// Same message either way, no hint about which field was wrong.
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Error": "Login failed. Check email and password.",
			"Next":  c.PostForm("next"),
		})
		return
	}

	session := sessions.Default(c)
	maxAge := 0 // browser-session cookie
	if remember {
		maxAge = rememberMaxAge
	}
	session.Options(sessions.Options{Path: "/", MaxAge: maxAge, HttpOnly: true})
	session.Set("user_id", user.ID)
	session.Save()

	next := c.PostForm("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
