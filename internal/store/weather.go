package store

import (
	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

func (s *Store) applyWeatherLoaded(act event.WeatherLoaded) {
	// Wholesale replace, like crypto and news snapshots.
	s.cities = append([]domain.City(nil), act.Cities...)
	s.weatherStatus = domainState{}
}

// applyCityWeatherLoaded sets the detail-view city and upserts it into
// the collection: replace-if-exists, else append.
func (s *Store) applyCityWeatherLoaded(act event.CityWeatherLoaded) {
	city := act.City
	s.currentCity = &city
	s.weatherStatus = domainState{}

	for i := range s.cities {
		if s.cities[i].ID == city.ID {
			s.cities[i] = city
			return
		}
	}
	s.cities = append(s.cities, city)
}

func (s *Store) applyCityHistoryLoaded(act event.CityHistoryLoaded) {
	s.cityHistory = append([]domain.WeatherPoint(nil), act.Points...)
	s.weatherStatus = domainState{}
}
