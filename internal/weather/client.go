// Package weather consulta la API de OpenWeatherMap y recorta las
// respuestas a lo que consume el frontend.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrLocationRequired señala una consulta sin coordenadas ni ciudad.
var ErrLocationRequired = errors.New("location required")

// ProviderError transporta el rechazo del proveedor externo (ciudad
// desconocida, clave inválida) hacia la capa HTTP.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather provider: status=%d %s", e.Status, e.Message)
}

// Current es el estado actual del clima ya aplanado.
type Current struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"wind_speed"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// ForecastSlot es un intervalo de 3 horas del pronóstico.
type ForecastSlot struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Client consume la API del proveedor de clima.
type Client struct {
	baseURL string
	apiKey  string
	country string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey, country string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		country: country,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type weatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Name string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Current consulta el clima actual por coordenadas o, en su defecto, por
// ciudad (con el país configurado como sufijo).
func (c *Client) Current(ctx context.Context, lat, lon, city string) (Current, error) {
	q := url.Values{}
	switch {
	case lat != "" && lon != "":
		q.Set("lat", lat)
		q.Set("lon", lon)
	case city != "":
		q.Set("q", city+","+c.country)
	default:
		return Current{}, ErrLocationRequired
	}

	var wr weatherResponse
	if err := c.get(ctx, "/weather", q, &wr); err != nil {
		return Current{}, err
	}

	cur := Current{
		Temperature: wr.Main.Temp,
		FeelsLike:   wr.Main.FeelsLike,
		Humidity:    wr.Main.Humidity,
		WindSpeed:   wr.Wind.Speed,
		City:        wr.Name,
		Country:     wr.Sys.Country,
		Lat:         wr.Coord.Lat,
		Lon:         wr.Coord.Lon,
	}
	if len(wr.Weather) > 0 {
		cur.Description = wr.Weather[0].Description
		cur.Icon = wr.Weather[0].Icon
	}
	return cur, nil
}

// Forecast devuelve los próximos 8 intervalos de 3 horas (24 horas).
func (c *Client) Forecast(ctx context.Context, lat, lon string) ([]ForecastSlot, error) {
	if lat == "" || lon == "" {
		return nil, ErrLocationRequired
	}
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)

	var fr forecastResponse
	if err := c.get(ctx, "/forecast", q, &fr); err != nil {
		return nil, err
	}

	slots := make([]ForecastSlot, 0, 8)
	for _, item := range fr.List {
		if len(slots) == 8 {
			break
		}
		slot := ForecastSlot{
			Time:        item.DtTxt,
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			slot.Description = item.Weather[0].Description
			slot.Icon = item.Weather[0].Icon
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var er struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &er)
		if c.logger != nil {
			c.logger.Warn("weather provider error",
				zap.Int("status", resp.StatusCode),
				zap.String("message", er.Message),
			)
		}
		return &ProviderError{Status: resp.StatusCode, Message: er.Message}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
