package inventory

import (
	"encoding/json"
	"testing"
)

func TestStockPreservesJSONKind(t *testing.T) {
	cases := []struct {
		raw  string
		kind StockKind
		text string
	}{
		{`10`, StockKindNumber, "10"},
		{`-2.5`, StockKindNumber, "-2.5"},
		{`"8"`, StockKindText, "8"},
		{`""`, StockKindText, ""},
		{`null`, StockKindRaw, "null"},
		{`true`, StockKindRaw, "true"},
	}
	for _, tc := range cases {
		var s Stock
		if err := json.Unmarshal([]byte(tc.raw), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if s.Kind() != tc.kind || s.String() != tc.text {
			t.Fatalf("%s: got kind=%d text=%q", tc.raw, s.Kind(), s.String())
		}
		out, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.raw, err)
		}
		if string(out) != tc.raw {
			t.Fatalf("expected %s to round-trip, got %s", tc.raw, out)
		}
	}
}

func TestStockZeroValueIsNumberZero(t *testing.T) {
	var s Stock
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "0" || s.String() != "0" {
		t.Fatalf("expected zero stock to render 0, got %s / %q", out, s.String())
	}
}

func TestStockZeroRoundTripsEqual(t *testing.T) {
	var missing Item
	if err := json.Unmarshal([]byte(`{"id":7,"name":"Tanpa Stok","price":"Rp"}`), &missing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw, err := json.Marshal(missing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var reloaded Item
	if err := json.Unmarshal(raw, &reloaded); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded != missing {
		t.Fatalf("expected %+v to survive a save and reload, got %+v", missing, reloaded)
	}
	if StockNumber(0) != (Stock{}) {
		t.Fatalf("StockNumber(0) should equal the zero value")
	}
}

func TestStockFloat(t *testing.T) {
	if f, ok := StockText(" 7 ").Float(); !ok || f != 7 {
		t.Fatalf("expected text stock to parse, got %v %v", f, ok)
	}
	if _, ok := StockText("banyak").Float(); ok {
		t.Fatalf("expected free text not to parse")
	}
	if v := StockNumber(3).JSONValue(); v != float64(3) {
		t.Fatalf("expected float64 binding, got %#v", v)
	}
	if v := StockText("3").JSONValue(); v != "3" {
		t.Fatalf("expected string binding, got %#v", v)
	}
}

func TestStockRejectsInvalidJSON(t *testing.T) {
	var s Stock
	if err := s.UnmarshalJSON([]byte(`{`)); err == nil {
		t.Fatalf("expected error for invalid value")
	}
}
