package store

import (
	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

// addNotificationLocked prepends a new entry and truncates the log to
// its capacity. Newest-first ordering is the log's core invariant.
// Caller holds s.mu.
func (s *Store) addNotificationLocked(kind domain.NotificationType, title, message string) {
	n := domain.Notification{
		ID:        s.newID(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Timestamp: s.now().UTC(),
		Read:      false,
	}

	s.notifications = append([]domain.Notification{n}, s.notifications...)
	if len(s.notifications) > domain.MaxNotifications {
		s.notifications = s.notifications[:domain.MaxNotifications]
	}
}

// applyNotificationRead marks one entry read; no-op if the id is absent.
func (s *Store) applyNotificationRead(act event.NotificationRead) {
	for i := range s.notifications {
		if s.notifications[i].ID == act.ID {
			s.notifications[i].Read = true
			return
		}
	}
}

func (s *Store) applyAllNotificationsRead() {
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// applyNotificationDeleted removes exactly one entry; clearing the
// whole log is a separate action.
func (s *Store) applyNotificationDeleted(act event.NotificationDeleted) {
	for i := range s.notifications {
		if s.notifications[i].ID == act.ID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
