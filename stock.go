package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StockKind records which JSON shape a Stock value had.
type StockKind uint8

const (
	// StockKindNumber is a JSON number, the shape produced by Add and the seed.
	StockKindNumber StockKind = iota
	// StockKindText is a JSON string, the shape produced by editing.
	StockKindText
	// StockKindRaw is any other JSON value found in storage. It is kept
	// verbatim so payloads round-trip unchanged.
	StockKindRaw
)

// Stock is a quantity that is stored either as a number or as free text.
// The zero value is the number 0.
type Stock struct {
	kind  StockKind
	value string
}

// numberStock keeps the literal of a JSON number. The literal 0 is held as
// the zero value so Stock{} and a decoded 0 compare equal.
func numberStock(literal string) Stock {
	if literal == "0" {
		literal = ""
	}
	return Stock{kind: StockKindNumber, value: literal}
}

// StockNumber returns a numeric Stock.
func StockNumber(n int64) Stock {
	return numberStock(strconv.FormatInt(n, 10))
}

// StockText returns a Stock holding text exactly as typed.
func StockText(s string) Stock {
	return Stock{kind: StockKindText, value: s}
}

// Kind reports the JSON shape of s.
func (s Stock) Kind() StockKind {
	return s.kind
}

// String renders s for display.
func (s Stock) String() string {
	if s.kind == StockKindNumber && s.value == "" {
		return "0"
	}
	return s.value
}

// Float returns the numeric value of s, parsing text when possible.
func (s Stock) Float() (float64, bool) {
	raw := strings.TrimSpace(s.String())
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// JSONValue returns s as a plain Go value (float64 for numbers, string
// otherwise) for rule evaluation.
func (s Stock) JSONValue() any {
	if s.kind == StockKindNumber {
		if f, ok := s.Float(); ok {
			return f
		}
	}
	return s.String()
}

// MarshalJSON implements json.Marshaler.
func (s Stock) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case StockKindText:
		return json.Marshal(s.value)
	case StockKindRaw:
		return []byte(s.value), nil
	default:
		return []byte(s.String()), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Strings become text, numbers
// keep their literal form, anything else is kept raw.
func (s *Stock) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("inventory: empty stock value")
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = StockText(text)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var number json.Number
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return err
		}
		*s = numberStock(number.String())
		return nil
	default:
		if !json.Valid(trimmed) {
			return fmt.Errorf("inventory: invalid stock value %q", trimmed)
		}
		*s = Stock{kind: StockKindRaw, value: string(trimmed)}
		return nil
	}
}

// OpenAPISchema describes the two shapes a stored stock value takes.
func (Stock) OpenAPISchema() map[string]any {
	return map[string]any{
		"oneOf": []any{
			map[string]any{"type": "number"},
			map[string]any{"type": "string"},
		},
	}
}
