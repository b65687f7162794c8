package store

import (
	"context"
	"log/slog"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

// applyCityFavoriteToggled flips membership of the id and synchronously
// persists the full updated set.
func (s *Store) applyCityFavoriteToggled(act event.CityFavoriteToggled) {
	idx := -1
	for i, id := range s.favoriteCities {
		if id == act.ID {
			idx = i
			break
		}
	}

	if idx == -1 {
		s.favoriteCities = append(s.favoriteCities, act.ID)
	} else {
		s.favoriteCities = append(s.favoriteCities[:idx], s.favoriteCities[idx+1:]...)
	}

	if s.persister != nil {
		if err := s.persister.SaveFavoriteCities(context.Background(), s.favoriteCities); err != nil {
			slog.Error("Failed to persist favorite cities", slog.Any("error", err))
		}
	}
}

func (s *Store) applyCryptoFavoriteToggled(act event.CryptoFavoriteToggled) {
	idx := -1
	for i, id := range s.favoriteCryptos {
		if id == act.ID {
			idx = i
			break
		}
	}

	if idx == -1 {
		s.favoriteCryptos = append(s.favoriteCryptos, act.ID)
	} else {
		s.favoriteCryptos = append(s.favoriteCryptos[:idx], s.favoriteCryptos[idx+1:]...)
	}

	if s.persister != nil {
		if err := s.persister.SaveFavoriteCryptos(context.Background(), s.favoriteCryptos); err != nil {
			slog.Error("Failed to persist favorite cryptos", slog.Any("error", err))
		}
	}
}

// IsFavoriteCity reports membership of a city id in the favorite set.
func (s *Store) IsFavoriteCity(id domain.CityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.favoriteCities {
		if f == id {
			return true
		}
	}
	return false
}

// IsFavoriteCrypto reports membership of an asset id in the favorite set.
func (s *Store) IsFavoriteCrypto(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.favoriteCryptos {
		if f == id {
			return true
		}
	}
	return false
}
