package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrimarket/internal/service"
	"agrimarket/internal/session"
)

// AuthHandler mantiene dependencias para endpoints de autenticación.
type AuthHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	sessions *session.Manager
}

func NewAuthHandler(logger *zap.Logger, userServ *service.UserService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		userServ: userServ,
		sessions: sessions,
	}
}

// Register maneja POST /api/auth/register. Registrar una identidad ya
// conocida se comporta como login idempotente.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Name        string `json:"name" binding:"required"`
		FirebaseUID string `json:"firebase_uid"`
		Phone       string `json:"phone"`
		Location    string `json:"location"`
		Language    string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Subject:  req.FirebaseUID,
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Language: req.Language,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid email"})
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "registration conflict"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not register"})
		}
		return
	}

	// La sesión se establece recién después de que el alta quedó persistida.
	if !h.establishSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Login maneja POST /api/auth/login. No registra: una cuenta inexistente es
// un 404.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		FirebaseUID string `json:"firebase_uid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	user, err := h.userServ.Login(c.Request.Context(), req.Email, req.FirebaseUID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "login conflict"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not login"})
		}
		return
	}

	if !h.establishSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"location": user.Location,
		},
	})
}

// Logout maneja POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Clear(c.Request.Context(), cookie); err != nil {
			h.logger.Warn("clear session failed", zap.Error(err))
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) establishSession(c *gin.Context, userID int64) bool {
	value, err := h.sessions.Establish(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("establish session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not establish session"})
		return false
	}
	setSessionCookie(c, value, int(h.sessions.TTL().Seconds()))
	return true
}
