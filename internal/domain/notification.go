package domain

import "time"

// NotificationType classifies a notification for rendering and filtering.
type NotificationType string

const (
	NotificationPriceAlert   NotificationType = "price_alert"
	NotificationWeatherAlert NotificationType = "weather_alert"
	NotificationSystemError  NotificationType = "system_error"
)

// MaxNotifications bounds the in-memory notification log.
// The oldest entries are truncated on overflow.
const MaxNotifications = 20

// Notification is a single entry in the notification log.
// Entries are ordered newest-first.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
