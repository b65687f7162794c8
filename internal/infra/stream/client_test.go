package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

// recordingDispatcher captures every dispatched action for assertions.
type recordingDispatcher struct {
	mu      sync.Mutex
	actions []event.Action
}

func (r *recordingDispatcher) Dispatch(a event.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *recordingDispatcher) snapshot() []event.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Action(nil), r.actions...)
}

func (r *recordingDispatcher) count(pred func(event.Action) bool) int {
	n := 0
	for _, a := range r.snapshot() {
		if pred(a) {
			n++
		}
	}
	return n
}

// waitFor polls until pred holds or the deadline passes.
func (r *recordingDispatcher) waitFor(t *testing.T, timeout time.Duration, pred func([]event.Action) bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if pred(r.snapshot()) {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return pred(r.snapshot())
}

// createMockWSServer creates a test WebSocket server
func createMockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

// httpToWS converts http:// URL to ws://
func httpToWS(url string) string {
	return strings.Replace(url, "http://", "ws://", 1)
}

// deadEndpoint returns a ws:// URL with nothing listening on it.
func deadEndpoint(t *testing.T) string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := httpToWS(server.URL)
	server.Close()
	return url
}

func newTestClient(url string, d Dispatcher) *Client {
	c := NewClient(url, d, false)
	c.ConnectTimeout = 500 * time.Millisecond
	c.Backoff = func(int) time.Duration { return 10 * time.Millisecond }
	return c
}

func isConnecting(a event.Action) bool {
	_, ok := a.(event.StreamConnecting)
	return ok
}

func connectedSeen(actions []event.Action) bool {
	for _, a := range actions {
		if _, ok := a.(event.StreamConnected); ok {
			return true
		}
	}
	return false
}

func TestClient_ConnectAndReceiveTicks(t *testing.T) {
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"ethereum":"2500.5","bitcoin":"45000"}`))
		time.Sleep(200 * time.Millisecond)
	})
	defer server.Close()

	d := &recordingDispatcher{}
	client := newTestClient(httpToWS(server.URL), d)
	client.Connect()
	defer client.Close()

	ok := d.waitFor(t, time.Second, func(actions []event.Action) bool {
		ticks := 0
		for _, a := range actions {
			if _, isTick := a.(event.PriceTick); isTick {
				ticks++
			}
		}
		return ticks == 2
	})
	if !ok {
		t.Fatalf("did not receive 2 ticks, actions: %+v", d.snapshot())
	}

	// Ticks dispatched in payload order.
	var ids []string
	for _, a := range d.snapshot() {
		if tick, isTick := a.(event.PriceTick); isTick {
			ids = append(ids, tick.ID)
		}
	}
	if ids[0] != "ethereum" || ids[1] != "bitcoin" {
		t.Errorf("tick order = %v", ids)
	}

	if got := client.Status().State; got != domain.ConnConnected {
		t.Errorf("State = %s, want %s", got, domain.ConnConnected)
	}
}

func TestClient_CleanCloseNoReconnect(t *testing.T) {
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		deadline := time.Now().Add(time.Second)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"), deadline)
		// Drain until the peer completes the close handshake.
		conn.ReadMessage()
	})
	defer server.Close()

	d := &recordingDispatcher{}
	client := newTestClient(httpToWS(server.URL), d)
	client.Connect()
	defer client.Close()

	ok := d.waitFor(t, time.Second, func(actions []event.Action) bool {
		for _, a := range actions {
			if _, isDisc := a.(event.StreamDisconnected); isDisc {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatal("never observed disconnect")
	}

	// Backoff is 10ms in tests; give several cycles to prove no
	// reconnect gets scheduled after a normal closure.
	time.Sleep(150 * time.Millisecond)
	if n := d.count(isConnecting); n != 1 {
		t.Errorf("StreamConnecting dispatched %d times, want 1 (no reconnect)", n)
	}
	if got := client.Status().State; got != domain.ConnDisconnected {
		t.Errorf("State = %s, want %s", got, domain.ConnDisconnected)
	}
}

func TestClient_UncleanCloseReconnects(t *testing.T) {
	var mu sync.Mutex
	conns := 0
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		mu.Lock()
		conns++
		first := conns == 1
		mu.Unlock()
		if first {
			// Abrupt TCP close with no close frame.
			conn.Close()
			return
		}
		time.Sleep(300 * time.Millisecond)
	})
	defer server.Close()

	d := &recordingDispatcher{}
	client := newTestClient(httpToWS(server.URL), d)
	client.Connect()
	defer client.Close()

	// The second StreamConnecting is the automatic reconnect.
	ok := d.waitFor(t, 2*time.Second, func(actions []event.Action) bool {
		seen := 0
		for _, a := range actions {
			if c, isConn := a.(event.StreamConnecting); isConn {
				seen++
				if seen == 2 && c.Attempt != 1 {
					t.Errorf("reconnect Attempt = %d, want 1", c.Attempt)
				}
			}
		}
		return seen >= 2
	})
	if !ok {
		t.Fatalf("no reconnect after unclean close, actions: %+v", d.snapshot())
	}

	// And it lands.
	if !d.waitFor(t, 2*time.Second, connectedSeen) {
		t.Fatal("reconnect never completed")
	}
}

func TestClient_ExhaustionIsTerminal(t *testing.T) {
	d := &recordingDispatcher{}
	client := newTestClient(deadEndpoint(t), d)
	client.Connect()
	defer client.Close()

	ok := d.waitFor(t, 5*time.Second, func(actions []event.Action) bool {
		for _, a := range actions {
			if f, isFail := a.(event.StreamFailed); isFail && f.Attempts > 0 {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatalf("never reached terminal failure, actions: %+v", d.snapshot())
	}

	status := client.Status()
	if status.State != domain.ConnFailed {
		t.Errorf("State = %s, want %s", status.State, domain.ConnFailed)
	}
	if status.ReconnectAttempts != 5 {
		t.Errorf("ReconnectAttempts = %d, want 5", status.ReconnectAttempts)
	}

	// Initial attempt plus five reconnects, then nothing further.
	time.Sleep(100 * time.Millisecond)
	if n := d.count(isConnecting); n != 6 {
		t.Errorf("StreamConnecting dispatched %d times, want 6", n)
	}

	// Exactly one terminal notification.
	terminal := d.count(func(a event.Action) bool {
		n, isNote := a.(event.NotificationAdded)
		return isNote && n.Title == "Connection Failed"
	})
	if terminal != 1 {
		t.Errorf("terminal notifications = %d, want exactly 1", terminal)
	}
}

func TestClient_ManualReconnectResetsAttempts(t *testing.T) {
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		time.Sleep(300 * time.Millisecond)
	})
	defer server.Close()

	d := &recordingDispatcher{}
	client := newTestClient(httpToWS(server.URL), d)

	client.mu.Lock()
	client.attempts = 5
	client.state = domain.ConnFailed
	client.mu.Unlock()

	client.Reconnect()
	defer client.Close()

	if !d.waitFor(t, 2*time.Second, connectedSeen) {
		t.Fatal("manual reconnect did not connect")
	}
	status := client.Status()
	if status.State != domain.ConnConnected || status.ReconnectAttempts != 0 {
		t.Errorf("Status after manual reconnect = %+v", status)
	}

	// The manual attempt started from a reset counter.
	first, _ := d.snapshot()[0].(event.StreamConnecting)
	if first.Attempt != 0 {
		t.Errorf("Attempt = %d, want 0", first.Attempt)
	}
}

func TestClient_CloseStopsCallbacks(t *testing.T) {
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		for {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"bitcoin":"45000"}`)); err != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	})
	defer server.Close()

	d := &recordingDispatcher{}
	client := newTestClient(httpToWS(server.URL), d)
	client.Connect()

	if !d.waitFor(t, time.Second, connectedSeen) {
		t.Fatal("never connected")
	}

	client.Close()
	if got := client.Status().State; got != domain.ConnDisconnected {
		t.Errorf("State after Close = %s", got)
	}

	before := len(d.snapshot())
	time.Sleep(100 * time.Millisecond)
	after := len(d.snapshot())
	if before != after {
		t.Errorf("callbacks after Close: %d new actions", after-before)
	}

	// Close is idempotent.
	client.Close()
}
