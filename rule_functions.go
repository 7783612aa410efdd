package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultFunctions returns the functions every query can call:
//
//	qty(stock)    stock as a number, 0 when blank
//	amount(price) price text such as "Rp 12.500,50" as a number
func DefaultFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("qty", quantityFunction)
	_ = registry.Register("amount", amountFunction)
	return registry
}

func quantityFunction(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("inventory: qty expects 1 argument, got %d", len(args))
	}
	d, err := decimalFrom(args[0], parseQuantity)
	if err != nil {
		return nil, fmt.Errorf("inventory: qty: %w", err)
	}
	return d.InexactFloat64(), nil
}

func amountFunction(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("inventory: amount expects 1 argument, got %d", len(args))
	}
	d, err := decimalFrom(args[0], ParseAmount)
	if err != nil {
		return nil, fmt.Errorf("inventory: amount: %w", err)
	}
	return d.InexactFloat64(), nil
}

func decimalFrom(value any, parse func(string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	case string:
		return parse(v)
	case Stock:
		return parse(v.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported value %T", value)
	}
}

func parseQuantity(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// ParseAmount reads a price written the Indonesian way: an optional
// currency prefix, '.' grouping thousands and ',' before decimals. A price
// with no digits, such as "Rp", is zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return d, nil
}
