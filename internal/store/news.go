package store

import (
	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

func (s *Store) applyNewsLoaded(act event.NewsLoaded) {
	// No merge semantics: ids are ordinal per fetch, so the whole
	// collection is replaced.
	s.news = append([]domain.NewsItem(nil), act.Items...)
	s.newsStatus = domainState{}
}
