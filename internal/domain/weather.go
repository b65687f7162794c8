package domain

import "time"

// CityID is the numeric OpenWeatherMap station identifier.
type CityID int

// City represents the current weather for a single station.
// Cities are replaced wholesale on each snapshot fetch; there are no
// partial streaming updates for weather.
type City struct {
	ID          CityID  `json:"id"`
	Name        string  `json:"name"`
	Temperature int     `json:"temperature"` // °C, rounded
	FeelsLike   int     `json:"feels_like"`  // °C, rounded
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`   // %
	WindSpeed   float64 `json:"wind_speed"` // m/s
	Clouds      int     `json:"clouds"`     // %
	Sunrise     int64   `json:"sunrise"`    // unix seconds
	Sunset      int64   `json:"sunset"`     // unix seconds
}

// WeatherPoint is a single sample in a city's daily history series.
type WeatherPoint struct {
	Date        time.Time `json:"date"`
	Temperature int       `json:"temperature"`
	Humidity    int       `json:"humidity"`
}
