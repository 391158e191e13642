package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrimarket/internal/config"
)

// NewRouter configura el router de Gin con middlewares, páginas y rutas API.
func NewRouter(
	logger *zap.Logger,
	cfg *config.Config,
	authMW gin.HandlerFunc,
	authH *AuthHandler,
	userH *UserHandler,
	resourceH *ResourceHandler,
	weatherH *WeatherHandler,
	pageH *PageHandler,
) *gin.Engine {
	r := gin.New()

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), cors.New(corsCfg))

	if cfg.TemplateGlob != "" {
		r.LoadHTMLGlob(cfg.TemplateGlob)
	}
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	// Páginas interactivas.
	r.GET("/", pageH.Index)
	r.GET("/login", pageH.Login)
	r.GET("/signup", pageH.Signup)

	pages := r.Group("", authMW)
	pages.GET("/dashboard", pageH.Dashboard)
	pages.GET("/marketplace", pageH.Marketplace)
	pages.GET("/add-resource", pageH.AddResource)
	pages.GET("/my-resources", pageH.MyResources)
	pages.GET("/profile", pageH.Profile)

	// API.
	auth := r.Group("/api/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)

	r.GET("/api/weather", weatherH.Current)
	r.GET("/api/weather/forecast", weatherH.Forecast)

	r.GET("/api/resources", resourceH.List)

	protected := r.Group("/api", authMW)
	protected.GET("/resources/my", resourceH.ListMine)
	protected.POST("/resources", resourceH.Create)
	protected.PUT("/resources/:id", resourceH.Update)
	protected.DELETE("/resources/:id", resourceH.Delete)
	protected.GET("/user/profile", userH.GetProfile)
	protected.PUT("/user/profile", userH.UpdateProfile)

	return r
}
