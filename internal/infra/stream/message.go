package stream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Tick is a single parsed price entry from an inbound feed frame.
type Tick struct {
	ID    string
	Price decimal.Decimal
}

// ParseFrame decodes one inbound frame from the price feed.
// A frame is a JSON object mapping asset id to a price, where the
// price is a string or a number depending on the asset. Entries that
// fail numeric parsing are returned as rejected ids; they never abort
// the rest of the frame. Iteration order of the payload is preserved.
func ParseFrame(data []byte) ([]Tick, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("frame is not a JSON object")
	}

	var ticks []Tick
	var rejected []string

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode frame key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected frame token: %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode frame value: %w", err)
		}

		var raw string
		switch v := valTok.(type) {
		case string:
			raw = v
		case json.Number:
			raw = v.String()
		case json.Delim:
			// Nested value; not a price. Skip it whole.
			if err := skipValue(dec, v); err != nil {
				return nil, nil, err
			}
			rejected = append(rejected, key)
			continue
		default:
			rejected = append(rejected, key)
			continue
		}

		price, err := decimal.NewFromString(raw)
		if err != nil {
			rejected = append(rejected, key)
			continue
		}

		ticks = append(ticks, Tick{ID: key, Price: price})
	}

	return ticks, rejected, nil
}

// skipValue consumes tokens until the object or array opened by delim
// is balanced.
func skipValue(dec *json.Decoder, delim json.Delim) error {
	if delim != '{' && delim != '[' {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to skip nested value: %w", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
