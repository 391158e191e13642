package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrimarket/internal/service"
	"agrimarket/internal/session"
)

// PageHandler sirve las páginas interactivas. Las rutas protegidas pasan
// antes por el Auth Gate.
type PageHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	sessions *session.Manager
}

func NewPageHandler(logger *zap.Logger, userServ *service.UserService, sessions *session.Manager) *PageHandler {
	return &PageHandler{
		logger:   logger,
		userServ: userServ,
		sessions: sessions,
	}
}

// Index redirige según haya o no sesión establecida.
func (h *PageHandler) Index(c *gin.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if _, ok := h.sessions.UserID(c.Request.Context(), cookie); ok {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"next": c.Query("next")})
}

func (h *PageHandler) Signup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", nil)
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	h.renderWithUser(c, "dashboard.html")
}

func (h *PageHandler) Marketplace(c *gin.Context) {
	h.renderWithUser(c, "marketplace.html")
}

func (h *PageHandler) AddResource(c *gin.Context) {
	h.renderWithUser(c, "add_resource.html")
}

func (h *PageHandler) MyResources(c *gin.Context) {
	h.renderWithUser(c, "my_resources.html")
}

func (h *PageHandler) Profile(c *gin.Context) {
	h.renderWithUser(c, "profile.html")
}

func (h *PageHandler) renderWithUser(c *gin.Context, template string) {
	userID, ok := UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.userServ.Profile(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("load user for page failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.HTML(http.StatusOK, template, gin.H{"user": user})
}
