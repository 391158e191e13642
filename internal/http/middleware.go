package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrimarket/internal/service"
	"agrimarket/internal/session"
)

const userIDKey = "auth_user_id"

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// AuthMiddleware pasa cada request protegido por el Auth Gate y corta ante
// rechazos. El camino de sesión no escribe nada; el camino por credencial
// establece la sesión recién después de resolver el usuario.
func AuthMiddleware(logger *zap.Logger, gate *service.AuthGate, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sessionUserID int64
		cookie, err := c.Cookie(session.CookieName)
		if err == nil {
			if id, ok := sessions.UserID(ctx, cookie); ok {
				sessionUserID = id
			}
		}

		result, err := gate.Authenticate(ctx, sessionUserID, c.GetHeader("Authorization"))
		if err != nil {
			rejectAuth(c, err)
			return
		}

		if result.FromCredential {
			value, err := sessions.Establish(ctx, result.UserID)
			if err != nil {
				logger.Error("establish session failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not establish session"})
				c.Abort()
				return
			}
			setSessionCookie(c, value, int(sessions.TTL().Seconds()))
		}

		c.Set(userIDKey, result.UserID)
		c.Next()
	}
}

// rejectAuth da respuesta según lo que espera el cliente: JSON estructurado
// para llamadas de API, redirección a login con destino preservado para
// navegación interactiva.
func rejectAuth(c *gin.Context, err error) {
	defer c.Abort()

	if wantsJSON(c) {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
		case errors.Is(err, service.ErrInvalidCredential):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		case errors.Is(err, service.ErrUnknownUser):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "authentication failed"})
		}
		return
	}

	target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, target)
}

// wantsJSON discrimina por expectativa de contenido y prefijo de ruta, no
// por método.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// UserID obtiene el user id autenticado desde el contexto del request.
func UserID(c *gin.Context) (int64, bool) {
	val, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}

func setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}
