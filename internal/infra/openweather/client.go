package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
)

// ErrUnsupportedCity is returned for station ids outside the fixed
// supported set. The check is synchronous; no request is made.
var ErrUnsupportedCity = errors.New("unsupported city id")

// cityCoord maps a station id to request coordinates.
type cityCoord struct {
	Lat  float64
	Lon  float64
	Name string
}

// Supported station identifiers. The set is fixed at compile time;
// unknown ids fail fast at the call site.
const (
	CityNewYork domain.CityID = 5128581
	CityLondon  domain.CityID = 2643743
	CityTokyo   domain.CityID = 1850147
)

var cityCoordinates = map[domain.CityID]cityCoord{
	CityNewYork: {Lat: 40.7143, Lon: -74.006, Name: "New York"},
	CityLondon:  {Lat: 51.5085, Lon: -0.1257, Name: "London"},
	CityTokyo:   {Lat: 35.6895, Lon: 139.6917, Name: "Tokyo"},
}

// SupportedCityIDs returns the fixed set of supported station ids.
func SupportedCityIDs() []domain.CityID {
	return []domain.CityID{CityNewYork, CityLondon, CityTokyo}
}

// weatherResponse mirrors the OpenWeatherMap current weather payload,
// reduced to the fields we normalize.
type weatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// forecastResponse mirrors the 5 day / 3 hour forecast payload.
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
	} `json:"list"`
}

// Client fetches weather snapshots from OpenWeatherMap.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an OpenWeatherMap client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CurrentWeather fetches and normalizes the current weather for a
// supported station id.
func (c *Client) CurrentWeather(ctx context.Context, id domain.CityID) (domain.City, error) {
	coord, ok := cityCoordinates[id]
	if !ok {
		return domain.City{}, fmt.Errorf("%w: %d", ErrUnsupportedCity, id)
	}

	var resp weatherResponse
	if err := c.get(ctx, "/weather", coord, &resp); err != nil {
		return domain.City{}, fmt.Errorf("failed to fetch weather for %s: %w", coord.Name, err)
	}

	description := ""
	if len(resp.Weather) > 0 {
		description = resp.Weather[0].Description
	}

	return domain.City{
		ID:          id,
		Name:        coord.Name,
		Temperature: int(math.Round(resp.Main.Temp)),
		FeelsLike:   int(math.Round(resp.Main.FeelsLike)),
		Description: description,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Clouds:      resp.Clouds.All,
		Sunrise:     resp.Sys.Sunrise,
		Sunset:      resp.Sys.Sunset,
	}, nil
}

// History fetches ~5 daily samples for a supported station id.
// True history is unavailable on the free tier, so the forecast series
// is subsampled instead: every 8th 3-hour sample is roughly one day.
func (c *Client) History(ctx context.Context, id domain.CityID) ([]domain.WeatherPoint, error) {
	coord, ok := cityCoordinates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCity, id)
	}

	var resp forecastResponse
	if err := c.get(ctx, "/forecast", coord, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch weather history for %s: %w", coord.Name, err)
	}

	points := make([]domain.WeatherPoint, 0, 5)
	for i, item := range resp.List {
		if i%8 != 0 {
			continue
		}
		points = append(points, domain.WeatherPoint{
			Date:        time.Unix(item.Dt, 0).UTC(),
			Temperature: int(math.Round(item.Main.Temp)),
			Humidity:    item.Main.Humidity,
		})
		if len(points) == 5 {
			break
		}
	}

	return points, nil
}

func (c *Client) get(ctx context.Context, path string, coord cityCoord, out any) error {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", coord.Lat))
	q.Set("lon", fmt.Sprintf("%g", coord.Lon))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}
