package event

import (
	"github.com/shopspring/decimal"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
)

// Type defines the type of action.
type Type uint16

const (
	ActCryptoLoading Type = iota + 1
	ActCryptoLoaded
	ActCryptoFailed
	ActCryptoDetailLoaded
	ActCryptoHistoryLoaded
	ActPriceTick

	ActWeatherLoading
	ActWeatherLoaded
	ActWeatherFailed
	ActCityWeatherLoaded
	ActCityHistoryLoaded

	ActNewsLoading
	ActNewsLoaded
	ActNewsFailed

	ActNotificationAdded
	ActNotificationRead
	ActAllNotificationsRead
	ActNotificationDeleted
	ActNotificationsCleared

	ActCityFavoriteToggled
	ActCryptoFavoriteToggled

	ActStreamConnecting
	ActStreamConnected
	ActStreamDisconnected
	ActStreamFailed
)

// Action is the interface for all store mutations. Every state change
// flows through one of these; nothing mutates the store directly.
type Action interface {
	GetType() Type
}

// --- crypto domain ---

// CryptoLoading marks the start of a crypto snapshot fetch.
type CryptoLoading struct{}

func (CryptoLoading) GetType() Type { return ActCryptoLoading }

// CryptoLoaded replaces the crypto collection wholesale.
type CryptoLoaded struct {
	Cryptos []domain.Crypto
}

func (CryptoLoaded) GetType() Type { return ActCryptoLoaded }

// CryptoFailed records a crypto fetch failure. Existing data is kept.
type CryptoFailed struct {
	Message string
}

func (CryptoFailed) GetType() Type { return ActCryptoFailed }

// CryptoDetailLoaded sets the selected crypto for the detail view.
type CryptoDetailLoaded struct {
	Crypto domain.Crypto
}

func (CryptoDetailLoaded) GetType() Type { return ActCryptoDetailLoaded }

// CryptoHistoryLoaded replaces the selected crypto's history series.
type CryptoHistoryLoaded struct {
	Points []domain.PricePoint
}

func (CryptoHistoryLoaded) GetType() Type { return ActCryptoHistoryLoaded }

// PriceTick is a single streaming price update. Ticks for unknown
// asset ids are dropped; ticks never create entities.
type PriceTick struct {
	ID    string
	Price decimal.Decimal
}

func (PriceTick) GetType() Type { return ActPriceTick }

// --- weather domain ---

type WeatherLoading struct{}

func (WeatherLoading) GetType() Type { return ActWeatherLoading }

type WeatherLoaded struct {
	Cities []domain.City
}

func (WeatherLoaded) GetType() Type { return ActWeatherLoaded }

type WeatherFailed struct {
	Message string
}

func (WeatherFailed) GetType() Type { return ActWeatherFailed }

// CityWeatherLoaded sets the current city and upserts it into the
// city collection (replace-if-exists, else append).
type CityWeatherLoaded struct {
	City domain.City
}

func (CityWeatherLoaded) GetType() Type { return ActCityWeatherLoaded }

type CityHistoryLoaded struct {
	Points []domain.WeatherPoint
}

func (CityHistoryLoaded) GetType() Type { return ActCityHistoryLoaded }

// --- news domain ---

type NewsLoading struct{}

func (NewsLoading) GetType() Type { return ActNewsLoading }

type NewsLoaded struct {
	Items []domain.NewsItem
}

func (NewsLoaded) GetType() Type { return ActNewsLoaded }

type NewsFailed struct {
	Message string
}

func (NewsFailed) GetType() Type { return ActNewsFailed }

// --- notifications ---

// NotificationAdded appends a notification. The store assigns the id
// and timestamp and truncates the log to its capacity.
type NotificationAdded struct {
	Kind    domain.NotificationType
	Title   string
	Message string
}

func (NotificationAdded) GetType() Type { return ActNotificationAdded }

type NotificationRead struct {
	ID string
}

func (NotificationRead) GetType() Type { return ActNotificationRead }

type AllNotificationsRead struct{}

func (AllNotificationsRead) GetType() Type { return ActAllNotificationsRead }

type NotificationDeleted struct {
	ID string
}

func (NotificationDeleted) GetType() Type { return ActNotificationDeleted }

type NotificationsCleared struct{}

func (NotificationsCleared) GetType() Type { return ActNotificationsCleared }

// --- user preferences ---

type CityFavoriteToggled struct {
	ID domain.CityID
}

func (CityFavoriteToggled) GetType() Type { return ActCityFavoriteToggled }

type CryptoFavoriteToggled struct {
	ID string
}

func (CryptoFavoriteToggled) GetType() Type { return ActCryptoFavoriteToggled }

// --- streaming connection ---

type StreamConnecting struct {
	Attempt int
}

func (StreamConnecting) GetType() Type { return ActStreamConnecting }

type StreamConnected struct{}

func (StreamConnected) GetType() Type { return ActStreamConnected }

type StreamDisconnected struct{}

func (StreamDisconnected) GetType() Type { return ActStreamDisconnected }

type StreamFailed struct {
	Message  string
	Attempts int
}

func (StreamFailed) GetType() Type { return ActStreamFailed }
