package stream

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra"
)

// Dispatcher receives typed actions produced by the streaming client.
// In production this is the state store.
type Dispatcher interface {
	Dispatch(event.Action)
}

// Client manages the lifecycle of the price feed connection.
// It owns the single live websocket instance exclusively: no other
// component holds or mutates the raw handle. It handles the connect
// timeout, reconnection with exponential backoff, and demultiplexing
// of inbound frames into typed actions.
type Client struct {
	url        string
	dispatcher Dispatcher
	simulate   bool

	mu             sync.Mutex
	conn           *websocket.Conn
	state          domain.ConnectionState
	attempts       int
	lastError      string
	gen            uint64 // connection generation; stale dials are discarded
	reconnectTimer *time.Timer
	alertsStarted  bool
	disposed       bool

	done chan struct{}
	wg   sync.WaitGroup

	tickRNG  *rand.Rand
	alertRNG *rand.Rand

	// ConnectTimeout bounds the websocket handshake. An attempt that
	// has not opened within it counts as a failure and consumes one
	// reconnect slot.
	ConnectTimeout time.Duration

	// Backoff returns the delay before reconnect attempt k (1-based).
	Backoff func(attempt int) time.Duration

	// AlertInterval is the period of the simulated weather alert
	// generator (demo behavior, only when simulate is enabled).
	AlertInterval time.Duration
}

// FeedURL builds the feed endpoint for a fixed asset subscription list.
func FeedURL(base string, assets []string) string {
	return base + "?assets=" + url.QueryEscape(strings.Join(assets, ","))
}

// NewClient creates a streaming client for the given feed endpoint.
// simulate enables the demo alert generators (random price and
// weather alerts); threshold-rule alerts are unaffected by it.
func NewClient(feedURL string, dispatcher Dispatcher, simulate bool) *Client {
	return &Client{
		url:            feedURL,
		dispatcher:     dispatcher,
		simulate:       simulate,
		state:          domain.ConnDisconnected,
		done:           make(chan struct{}),
		tickRNG:        rand.New(rand.NewSource(time.Now().UnixNano())),
		alertRNG:       rand.New(rand.NewSource(time.Now().UnixNano() + 1)),
		ConnectTimeout: infra.ConnectTimeout,
		Backoff:        infra.ReconnectDelay,
		AlertInterval:  30 * time.Second,
	}
}

// Connect opens the feed connection. It is idempotent: any live or
// in-flight connection is torn down first, so at most one connection
// instance exists at any time.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.teardownLocked()
	c.gen++
	gen := c.gen
	c.state = domain.ConnConnecting
	attempt := c.attempts
	if c.simulate && !c.alertsStarted {
		c.alertsStarted = true
		c.wg.Add(1)
		go c.weatherAlertLoop()
	}
	c.mu.Unlock()

	c.dispatcher.Dispatch(event.StreamConnecting{Attempt: attempt})
	slog.Info("Connecting to price feed", slog.String("url", c.url), slog.Int("attempt", attempt))

	go c.dial(gen)
}

// Reconnect resets the attempt counter and reconnects unconditionally,
// regardless of the current state.
func (c *Client) Reconnect() {
	c.mu.Lock()
	c.attempts = 0
	c.mu.Unlock()
	c.Connect()
}

// Status returns the current connection status snapshot.
func (c *Client) Status() domain.ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ConnectionStatus{
		State:             c.state,
		ReconnectAttempts: c.attempts,
		LastError:         c.lastError,
	}
}

// Close disposes the client: all pending timers are canceled and the
// live connection, if any, is closed with a normal-closure code. No
// callbacks fire after Close returns.
func (c *Client) Close() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.gen++
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = domain.ConnDisconnected
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		closeGracefully(conn)
	}
	c.wg.Wait()
	slog.Info("Stream client closed")
}

// teardownLocked cancels the reconnect timer and releases any live
// connection without triggering reconnection. Caller holds c.mu.
func (c *Client) teardownLocked() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.conn != nil {
		conn := c.conn
		c.conn = nil
		go closeGracefully(conn)
	}
}

func closeGracefully(conn *websocket.Conn) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	conn.Close()
}

// dial performs the websocket handshake. It runs off the caller's
// goroutine so Connect never blocks on network I/O.
func (c *Client) dial(gen uint64) {
	dialer := websocket.Dialer{HandshakeTimeout: c.ConnectTimeout}
	conn, _, err := dialer.Dial(c.url, nil)

	c.mu.Lock()
	if c.disposed || gen != c.gen {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		c.state = domain.ConnDisconnected
		c.lastError = err.Error()
		c.mu.Unlock()

		slog.Warn("Feed connection failed", slog.Any("error", err))
		c.dispatcher.Dispatch(event.StreamFailed{Message: err.Error()})
		c.dispatcher.Dispatch(event.NotificationAdded{
			Kind:    domain.NotificationSystemError,
			Title:   "Connection Timeout",
			Message: "Failed to connect to crypto price feed. Retrying...",
		})
		c.scheduleReconnect()
		return
	}

	c.conn = conn
	c.state = domain.ConnConnected
	c.attempts = 0
	c.lastError = ""
	c.mu.Unlock()

	slog.Info("Feed connected")
	c.dispatcher.Dispatch(event.StreamConnected{})

	c.wg.Add(1)
	go c.readLoop(conn, gen)
}

func (c *Client) readLoop(conn *websocket.Conn, gen uint64) {
	defer c.wg.Done()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.handleReadError(conn, gen, err)
			return
		}
		c.handleFrame(msg)
	}
}

// handleReadError implements the close/error half of the state
// machine. A clean close (1000) never reconnects. An unclean close
// reconnects if the client still owns the connection, i.e. the close
// wasn't an intentional teardown. Transport errors additionally
// surface one system-error notification before reconnecting.
func (c *Client) handleReadError(conn *websocket.Conn, gen uint64, err error) {
	c.mu.Lock()
	owned := c.conn == conn && c.gen == gen && !c.disposed
	if owned {
		c.conn = nil
		c.state = domain.ConnDisconnected
	}
	c.mu.Unlock()

	if !owned {
		return
	}

	c.dispatcher.Dispatch(event.StreamDisconnected{})

	if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		slog.Info("Feed closed cleanly")
		return
	}

	if _, isClose := err.(*websocket.CloseError); !isClose {
		// Transport error rather than a peer close.
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		c.dispatcher.Dispatch(event.StreamFailed{Message: err.Error()})
		c.dispatcher.Dispatch(event.NotificationAdded{
			Kind:    domain.NotificationSystemError,
			Title:   "Connection Issue",
			Message: "Problem connecting to crypto price service. Will attempt to reconnect automatically.",
		})
	}

	slog.Warn("Feed closed unexpectedly", slog.Any("error", err))
	c.scheduleReconnect()
}

// scheduleReconnect arms the backoff timer for the next attempt, or
// transitions to terminal Failed once attempts are exhausted.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}

	if c.attempts >= infra.MaxReconnectAttempts {
		c.state = domain.ConnFailed
		attempts := c.attempts
		c.lastError = "max reconnection attempts reached"
		c.mu.Unlock()

		slog.Error("Reconnect attempts exhausted", slog.Int("attempts", attempts))
		c.dispatcher.Dispatch(event.StreamFailed{
			Message:  "Max reconnection attempts reached. Manual reconnect required.",
			Attempts: attempts,
		})
		c.dispatcher.Dispatch(event.NotificationAdded{
			Kind:    domain.NotificationSystemError,
			Title:   "Connection Failed",
			Message: "Unable to connect after multiple attempts. Please reconnect manually.",
		})
		return
	}

	c.attempts++
	attempt := c.attempts
	delay := c.Backoff(attempt)
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	c.reconnectTimer = time.AfterFunc(delay, c.Connect)
	c.mu.Unlock()

	infra.Reconnects.Inc()
	slog.Info("Scheduling reconnect",
		slog.Int("attempt", attempt),
		slog.Int("max", infra.MaxReconnectAttempts),
		slog.Duration("delay", delay))
}

// handleFrame demultiplexes one inbound frame into price-tick actions,
// plus simulated price alerts when demo mode is on. Entries that fail
// numeric parsing are logged and skipped; they never abort the frame.
func (c *Client) handleFrame(msg []byte) {
	infra.FramesReceived.Inc()

	ticks, rejected, err := ParseFrame(msg)
	if err != nil {
		slog.Error("Failed to parse feed frame", slog.Any("error", err))
		return
	}

	for _, id := range rejected {
		infra.TicksRejected.Inc()
		slog.Warn("Invalid price entry", slog.String("asset", id))
	}

	for _, t := range ticks {
		c.dispatcher.Dispatch(event.PriceTick{ID: t.ID, Price: t.Price})
		infra.TicksApplied.Inc()

		if c.simulate && c.tickRNG.Float64() < 0.1 {
			c.dispatchSimulatedPriceAlert(t.ID)
		}
	}
}

// dispatchSimulatedPriceAlert emits a random price-alert notification.
// Demo-only behavior: the figures are synthetic, not derived from real
// thresholds.
func (c *Client) dispatchSimulatedPriceAlert(assetID string) {
	change := c.tickRNG.Float64() * 5
	label, direction := "Up", "increased"
	if c.tickRNG.Float64() < 0.5 {
		label, direction = "Down", "decreased"
	}

	name := titleCase(assetID)
	c.dispatcher.Dispatch(event.NotificationAdded{
		Kind:    domain.NotificationPriceAlert,
		Title:   fmt.Sprintf("%s %s %.2f%%", name, label, change),
		Message: fmt.Sprintf("%s has %s by %.2f%% in the last hour.", name, direction, change),
	})
}

var simulatedAlertCities = []string{"New York", "London", "Tokyo", "Sydney", "Berlin"}

var simulatedAlertTitles = []string{
	"Heavy Rain Expected",
	"High Winds Alert",
	"Extreme Temperature Warning",
	"Thunderstorm Warning",
	"Air Quality Alert",
}

// weatherAlertLoop periodically emits simulated weather alerts. It is
// canceled only on disposal, independent of the connection state.
func (c *Client) weatherAlertLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.AlertInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if c.alertRNG.Float64() >= 0.2 {
				continue
			}
			city := simulatedAlertCities[c.alertRNG.Intn(len(simulatedAlertCities))]
			alert := simulatedAlertTitles[c.alertRNG.Intn(len(simulatedAlertTitles))]
			c.dispatcher.Dispatch(event.NotificationAdded{
				Kind:    domain.NotificationWeatherAlert,
				Title:   fmt.Sprintf("%s for %s", alert, city),
				Message: fmt.Sprintf("Weather alert: %s has been issued for %s. Take necessary precautions.", alert, city),
			})
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
