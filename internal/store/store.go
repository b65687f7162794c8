package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

// Persister receives the full favorite sets on every toggle.
// In production this is the SQLite preference store.
type Persister interface {
	SaveFavoriteCities(ctx context.Context, ids []domain.CityID) error
	SaveFavoriteCryptos(ctx context.Context, ids []string) error
}

// domainState is the per-domain loading/error bookkeeping. Loading is
// set at the start of a fetch and cleared on resolution; a failure
// records the message but never clears existing data.
type domainState struct {
	Loading bool
	Error   string
}

// Store is the process-wide state container. One instance lives for
// the whole session. All mutation flows through Dispatch with typed
// actions; reads return copies. A mutex serializes dispatches so every
// applied action sees a consistent previous state.
type Store struct {
	mu sync.RWMutex

	cryptos       []domain.Crypto
	selected      *domain.Crypto
	cryptoHistory []domain.PricePoint
	cryptoStatus  domainState

	cities        []domain.City
	currentCity   *domain.City
	cityHistory   []domain.WeatherPoint
	weatherStatus domainState

	news       []domain.NewsItem
	newsStatus domainState

	notifications []domain.Notification

	favoriteCities  []domain.CityID
	favoriteCryptos []string

	connection domain.ConnectionStatus

	alertRules []*domain.AlertRule

	persister Persister

	now   func() time.Time
	newID func() string
}

// New creates the state store. persister may be nil (favorites are
// then kept in memory only, which the tests use).
func New(persister Persister) *Store {
	return &Store{
		persister: persister,
		now:       time.Now,
		newID:     newNotificationID,
	}
}

// newNotificationID returns a time-ordered globally unique token.
func newNotificationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SeedFavorites installs the persisted favorite sets at startup,
// before any toggles.
func (s *Store) SeedFavorites(cities []domain.CityID, cryptos []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteCities = append([]domain.CityID(nil), cities...)
	s.favoriteCryptos = append([]string(nil), cryptos...)
}

// AddAlertRule registers a price threshold rule. It is evaluated on
// every applied tick for its asset; on crossing it fires one
// notification and deactivates itself.
func (s *Store) AddAlertRule(rule *domain.AlertRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertRules = append(s.alertRules, rule)
}

// Dispatch applies one action to the store. Each application is a
// pure transition of previous state to next state, serialized by the
// store's mutex.
func (s *Store) Dispatch(a event.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch act := a.(type) {
	// crypto
	case event.CryptoLoading:
		s.cryptoStatus = domainState{Loading: true}
	case event.CryptoLoaded:
		s.applyCryptoLoaded(act)
	case event.CryptoFailed:
		s.cryptoStatus = domainState{Error: act.Message}
	case event.CryptoDetailLoaded:
		s.applyCryptoDetailLoaded(act)
	case event.CryptoHistoryLoaded:
		s.applyCryptoHistoryLoaded(act)
	case event.PriceTick:
		s.applyPriceTick(act)

	// weather
	case event.WeatherLoading:
		s.weatherStatus = domainState{Loading: true}
	case event.WeatherLoaded:
		s.applyWeatherLoaded(act)
	case event.WeatherFailed:
		s.weatherStatus = domainState{Error: act.Message}
	case event.CityWeatherLoaded:
		s.applyCityWeatherLoaded(act)
	case event.CityHistoryLoaded:
		s.applyCityHistoryLoaded(act)

	// news
	case event.NewsLoading:
		s.newsStatus = domainState{Loading: true}
	case event.NewsLoaded:
		s.applyNewsLoaded(act)
	case event.NewsFailed:
		s.newsStatus = domainState{Error: act.Message}

	// notifications
	case event.NotificationAdded:
		s.addNotificationLocked(act.Kind, act.Title, act.Message)
	case event.NotificationRead:
		s.applyNotificationRead(act)
	case event.AllNotificationsRead:
		s.applyAllNotificationsRead()
	case event.NotificationDeleted:
		s.applyNotificationDeleted(act)
	case event.NotificationsCleared:
		s.notifications = nil

	// preferences
	case event.CityFavoriteToggled:
		s.applyCityFavoriteToggled(act)
	case event.CryptoFavoriteToggled:
		s.applyCryptoFavoriteToggled(act)

	// connection
	case event.StreamConnecting:
		s.connection = domain.ConnectionStatus{
			State:             domain.ConnConnecting,
			ReconnectAttempts: act.Attempt,
		}
	case event.StreamConnected:
		s.connection = domain.ConnectionStatus{State: domain.ConnConnected}
	case event.StreamDisconnected:
		s.connection.State = domain.ConnDisconnected
	case event.StreamFailed:
		s.connection.State = domain.ConnFailed
		s.connection.LastError = act.Message
		if act.Attempts > 0 {
			s.connection.ReconnectAttempts = act.Attempts
		}

	default:
		slog.Warn("Unknown action dispatched", slog.Any("type", a.GetType()))
	}
}

// --- read side: all getters return copies ---

// Cryptos returns a copy of the crypto collection.
func (s *Store) Cryptos() []domain.Crypto {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Crypto(nil), s.cryptos...)
}

// Crypto looks up one entity by asset id.
func (s *Store) Crypto(id string) (domain.Crypto, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cryptos {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Crypto{}, false
}

// SelectedCrypto returns the detail-view entity, if loaded.
func (s *Store) SelectedCrypto() (domain.Crypto, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return domain.Crypto{}, false
	}
	return *s.selected, true
}

// CryptoHistory returns a copy of the selected asset's price series.
func (s *Store) CryptoHistory() []domain.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PricePoint(nil), s.cryptoHistory...)
}

// CryptoStatus reports the crypto domain's loading/error state.
func (s *Store) CryptoStatus() (loading bool, errMsg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cryptoStatus.Loading, s.cryptoStatus.Error
}

// Cities returns a copy of the city collection.
func (s *Store) Cities() []domain.City {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.City(nil), s.cities...)
}

// CurrentCity returns the detail-view city, if loaded.
func (s *Store) CurrentCity() (domain.City, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentCity == nil {
		return domain.City{}, false
	}
	return *s.currentCity, true
}

// CityHistory returns a copy of the current city's history series.
func (s *Store) CityHistory() []domain.WeatherPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.WeatherPoint(nil), s.cityHistory...)
}

// WeatherStatus reports the weather domain's loading/error state.
func (s *Store) WeatherStatus() (loading bool, errMsg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weatherStatus.Loading, s.weatherStatus.Error
}

// News returns a copy of the news collection.
func (s *Store) News() []domain.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.NewsItem(nil), s.news...)
}

// NewsStatus reports the news domain's loading/error state.
func (s *Store) NewsStatus() (loading bool, errMsg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newsStatus.Loading, s.newsStatus.Error
}

// Notifications returns a copy of the log, newest first.
func (s *Store) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Notification(nil), s.notifications...)
}

// UnreadCount is derived, not stored.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// FavoriteCities returns a copy of the favorite city id set.
func (s *Store) FavoriteCities() []domain.CityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CityID(nil), s.favoriteCities...)
}

// FavoriteCryptos returns a copy of the favorite crypto id set.
func (s *Store) FavoriteCryptos() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.favoriteCryptos...)
}

// Connection returns the streaming connection status.
func (s *Store) Connection() domain.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connection
}
