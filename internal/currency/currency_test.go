package currency

import (
	"errors"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   string
		want   float64
	}{
		{"usd whole", 100, "USD", 79.00},
		{"eur whole", 100, "EUR", 85.00},
		{"gbp identity", 12.345, "GBP", 12.35},
		{"usd rounds half up", 0.5, "USD", 0.40}, // 0.395
		{"usd fraction", 12.99, "USD", 10.26},    // 10.2621
		{"zero", 0, "USD", 0},
		{"negative clamps", -5, "EUR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.amount, tt.from)
			if err != nil {
				t.Fatalf("Convert(%v, %s) error: %v", tt.amount, tt.from, err)
			}
			if got != tt.want {
				t.Errorf("Convert(%v, %s) = %v, want %v", tt.amount, tt.from, got, tt.want)
			}
		})
	}
}

func TestConvertUnsupported(t *testing.T) {
	got, err := Convert(10, "JPY")
	if !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 on error, got %v", got)
	}
	if Supported("JPY") {
		t.Error("JPY should not be supported")
	}
}

func TestConvertMonotonicAndNonNegative(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "GBP"} {
		prev := -1.0
		for cents := -100; cents <= 100000; cents += 37 {
			got, err := Convert(float64(cents)/100, code)
			if err != nil {
				t.Fatalf("Convert error for %s: %v", code, err)
			}
			if got < 0 {
				t.Fatalf("%s: negative output %v for %d cents", code, got, cents)
			}
			if got < prev {
				t.Fatalf("%s: not monotonic at %d cents: %v < %v", code, cents, got, prev)
			}
			prev = got
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(79); got != "£79.00" {
		t.Errorf("Format(79) = %q", got)
	}
	if got := Format(10.5); got != "£10.50" {
		t.Errorf("Format(10.5) = %q", got)
	}
}
