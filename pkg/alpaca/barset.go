package alpaca

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// BarSet maps symbols to their bars and remembers the order in which the
// server listed the symbols.
type BarSet struct {
	symbols []string
	bars    map[string][]Bar
}

// Symbols returns the symbols in server order.
func (s *BarSet) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Get returns the bars for symbol, oldest first as sent.
func (s *BarSet) Get(symbol string) []Bar {
	return s.bars[symbol]
}

// Len returns the number of symbols.
func (s *BarSet) Len() int {
	return len(s.symbols)
}

// Map returns a plain map copy; key order is lost.
func (s *BarSet) Map() map[string][]Bar {
	out := make(map[string][]Bar, len(s.bars))
	for sym, bars := range s.bars {
		out[sym] = bars
	}
	return out
}

// UnmarshalJSON walks the object with jsonparser so key order survives.
func (s *BarSet) UnmarshalJSON(data []byte) error {
	set := BarSet{bars: make(map[string][]Bar)}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = set
		return nil
	}

	// keys arrive unescaped and may alias a scratch buffer, so copy them
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		symbol := string(key)

		var bars []Bar
		switch dataType {
		case jsonparser.Array:
			if err := json.Unmarshal(value, &bars); err != nil {
				return fmt.Errorf("bars for %s: %w", symbol, err)
			}
		case jsonparser.Null:
		default:
			return fmt.Errorf("bars for %s: expected array, got %s", symbol, dataType)
		}

		if _, seen := set.bars[symbol]; !seen {
			set.symbols = append(set.symbols, symbol)
		}
		set.bars[symbol] = bars
		return nil
	})
	if err != nil {
		return err
	}

	*s = set
	return nil
}

// MarshalJSON writes the symbols back in server order.
func (s BarSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sym := range s.symbols {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sym)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.bars[sym])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
