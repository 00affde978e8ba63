// Package weather is a thin OpenWeatherMap client shaping the raw API
// payload into the fields the assistant exposes.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"jaws/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

var (
	ErrNoAPIKey     = oops.Errorf("no API key configured for weather service")
	ErrCityNotFound = oops.Errorf("city not found")
)

type Client struct {
	apiKey  string
	units   string
	baseURL string
	http    *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{
		apiKey:  cfg.Weather.APIKey,
		units:   cfg.Weather.Units,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Current is the shaped current-weather report.
type Current struct {
	Location     Location    `json:"location"`
	Temperature  Temperature `json:"temperature"`
	Weather      Conditions  `json:"weather"`
	Wind         Wind        `json:"wind"`
	Humidity     int         `json:"humidity"`
	Pressure     int         `json:"pressure"`
	VisibilityKM float64     `json:"visibility"`
	Sunrise      string      `json:"sunrise"`
	Sunset       string      `json:"sunset"`
	Observed     string      `json:"dt"`
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type Temperature struct {
	Current   int `json:"current"`
	FeelsLike int `json:"feels_like"`
	Min       int `json:"min"`
	Max       int `json:"max"`
}

type Conditions struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Wind struct {
	Speed     float64 `json:"speed"`
	Direction int     `json:"direction"`
}

type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Visibility int   `json:"visibility"`
	Dt         int64 `json:"dt"`
}

// fetch runs one authenticated GET against the API and decodes the JSON
// body into out.
func (c *Client) fetch(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	query.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrCityNotFound
	case http.StatusUnauthorized:
		return oops.Errorf("invalid weather API key")
	default:
		return oops.Errorf("weather API returned status %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}

	return nil
}

// CurrentWeather fetches and shapes the current weather for a city
// ("London" or "London,uk"). Units defaults to the configured value.
func (c *Client) CurrentWeather(ctx context.Context, city, units string) (*Current, error) {
	if units == "" {
		units = c.units
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("units", units)

	var payload currentPayload
	if err := c.fetch(ctx, "/weather", query, &payload); err != nil {
		return nil, err
	}

	if len(payload.Weather) == 0 {
		return nil, oops.Errorf("weather response missing conditions")
	}

	return &Current{
		Location: Location{
			City:    payload.Name,
			Country: payload.Sys.Country,
		},
		Temperature: Temperature{
			Current:   roundInt(payload.Main.Temp),
			FeelsLike: roundInt(payload.Main.FeelsLike),
			Min:       roundInt(payload.Main.TempMin),
			Max:       roundInt(payload.Main.TempMax),
		},
		Weather: Conditions{
			Main:        payload.Weather[0].Main,
			Description: payload.Weather[0].Description,
			Icon:        payload.Weather[0].Icon,
		},
		Wind: Wind{
			Speed:     payload.Wind.Speed,
			Direction: payload.Wind.Deg,
		},
		Humidity:     payload.Main.Humidity,
		Pressure:     payload.Main.Pressure,
		VisibilityKM: float64(payload.Visibility) / 1000,
		Sunrise:      time.Unix(payload.Sys.Sunrise, 0).Format("15:04"),
		Sunset:       time.Unix(payload.Sys.Sunset, 0).Format("15:04"),
		Observed:     time.Unix(payload.Dt, 0).Format("2006-01-02 15:04:05"),
	}, nil
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
