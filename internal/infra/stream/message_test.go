package stream

import (
	"testing"
)

func TestParseFrame_OrderPreserved(t *testing.T) {
	frame := []byte(`{"ethereum":"2501.75","bitcoin":"45123.11","solana":"152.4"}`)

	ticks, rejected, err := ParseFrame(frame)
	if err != nil {
		t.Fatalf("ParseFrame error: %v", err)
	}
	if len(rejected) != 0 {
		t.Errorf("rejected = %v, want none", rejected)
	}

	wantOrder := []string{"ethereum", "bitcoin", "solana"}
	if len(ticks) != len(wantOrder) {
		t.Fatalf("got %d ticks, want %d", len(ticks), len(wantOrder))
	}
	for i, id := range wantOrder {
		if ticks[i].ID != id {
			t.Errorf("ticks[%d].ID = %s, want %s (payload order)", i, ticks[i].ID, id)
		}
	}
	if ticks[1].Price.String() != "45123.11" {
		t.Errorf("bitcoin price = %s", ticks[1].Price.String())
	}
}

func TestParseFrame_NumericValues(t *testing.T) {
	// Some feeds send numbers instead of strings. Both must parse, and
	// big numbers must not lose precision through a float round trip.
	frame := []byte(`{"bitcoin":45123.11000000000001,"ethereum":"2500"}`)

	ticks, rejected, err := ParseFrame(frame)
	if err != nil {
		t.Fatalf("ParseFrame error: %v", err)
	}
	if len(rejected) != 0 {
		t.Errorf("rejected = %v", rejected)
	}
	if ticks[0].Price.String() != "45123.11000000000001" {
		t.Errorf("numeric price lost precision: %s", ticks[0].Price.String())
	}
}

func TestParseFrame_RejectedEntries(t *testing.T) {
	frame := []byte(`{"bitcoin":"45000","broken":"not-a-number","nested":{"a":[1,2]},"ethereum":"2500"}`)

	ticks, rejected, err := ParseFrame(frame)
	if err != nil {
		t.Fatalf("ParseFrame error: %v", err)
	}

	// Bad entries are skipped, the rest of the frame still applies.
	if len(ticks) != 2 || ticks[0].ID != "bitcoin" || ticks[1].ID != "ethereum" {
		t.Errorf("ticks = %+v", ticks)
	}
	if len(rejected) != 2 || rejected[0] != "broken" || rejected[1] != "nested" {
		t.Errorf("rejected = %v", rejected)
	}
}

func TestParseFrame_Malformed(t *testing.T) {
	for _, frame := range []string{`[1,2,3]`, `"hello"`, ``} {
		if _, _, err := ParseFrame([]byte(frame)); err == nil {
			t.Errorf("ParseFrame(%q) should fail", frame)
		}
	}
}

func TestFeedURL(t *testing.T) {
	got := FeedURL("wss://ws.coincap.io/prices", []string{"bitcoin", "ethereum", "solana"})
	want := "wss://ws.coincap.io/prices?assets=bitcoin%2Cethereum%2Csolana"
	if got != want {
		t.Errorf("FeedURL = %s, want %s", got, want)
	}
}
