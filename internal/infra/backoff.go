package infra

import (
	"time"
)

const (
	// Reconnect policy constants
	ReconnectBaseDelay   = 5 * time.Second
	MaxReconnectAttempts = 5
	ConnectTimeout       = 10 * time.Second
)

// ReconnectDelay returns the exponential backoff duration before
// reconnect attempt k (1-based).
// Logic: ReconnectBaseDelay * 2^(k-1). The attempt count itself is
// capped at MaxReconnectAttempts by the caller, so no delay cap is
// needed here.
// If attempt is less than 1, it returns ReconnectBaseDelay.
func ReconnectDelay(attempt int) time.Duration {
	if attempt < 1 {
		return ReconnectBaseDelay
	}

	// 2^30 seconds is far beyond anything MaxReconnectAttempts allows;
	// guard anyway so a bogus attempt count cannot overflow the shift.
	if attempt > 30 {
		attempt = 30
	}

	return ReconnectBaseDelay * time.Duration(1<<(attempt-1))
}
