package domain

// ConnectionState represents the streaming client's state machine.
type ConnectionState int

const (
	ConnDisconnected ConnectionState = iota
	ConnConnecting
	ConnConnected
	ConnFailed
)

func (s ConnectionState) String() string {
	switch s {
	case ConnDisconnected:
		return "DISCONNECTED"
	case ConnConnecting:
		return "CONNECTING"
	case ConnConnected:
		return "CONNECTED"
	case ConnFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// ConnectionStatus is the store's view of the streaming connection.
// ReconnectAttempts resets to 0 only on a successful connect or an
// explicit manual reconnect.
type ConnectionStatus struct {
	State             ConnectionState `json:"state"`
	ReconnectAttempts int             `json:"reconnect_attempts"`
	LastError         string          `json:"last_error,omitempty"`
}
