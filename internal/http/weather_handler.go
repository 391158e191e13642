package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrimarket/internal/weather"
)

// WeatherHandler expone el passthrough al proveedor de clima.
type WeatherHandler struct {
	logger  *zap.Logger
	weather *weather.Client
}

func NewWeatherHandler(logger *zap.Logger, client *weather.Client) *WeatherHandler {
	return &WeatherHandler{
		logger:  logger,
		weather: client,
	}
}

// Current maneja GET /api/weather.
func (h *WeatherHandler) Current(c *gin.Context) {
	cur, err := h.weather.Current(
		c.Request.Context(),
		c.Query("lat"),
		c.Query("lon"),
		c.Query("city"),
	)
	if err != nil {
		h.respondError(c, err, "Weather data not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cur})
}

// Forecast maneja GET /api/weather/forecast.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	slots, err := h.weather.Forecast(c.Request.Context(), c.Query("lat"), c.Query("lon"))
	if err != nil {
		h.respondError(c, err, "Forecast data not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": slots})
}

func (h *WeatherHandler) respondError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, weather.ErrLocationRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Location required"})
		return
	}

	var provErr *weather.ProviderError
	if errors.As(err, &provErr) {
		msg := provErr.Message
		if msg == "" {
			msg = notFoundMsg
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": msg})
		return
	}

	h.logger.Error("weather request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "weather service unavailable"})
}
