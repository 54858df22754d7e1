package fallback

import (
	"testing"

	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/sets"
)

func TestGet_SV1TableOrder(t *testing.T) {
	cards := Default().Get("sv1")
	if len(cards) != 10 {
		t.Fatalf("expected 10 curated sv1 cards, got %d", len(cards))
	}
	for i, c := range cards {
		if c.Rank != i+1 {
			t.Errorf("card %d rank = %d", i, c.Rank)
		}
		if c.HasLivePricing {
			t.Errorf("%s marked live", c.Name)
		}
		if len(c.Quotes) != 1 || c.Quotes[0].Source != model.SourceFallback {
			t.Errorf("%s: expected a single fallback quote, got %+v", c.Name, c.Quotes)
		}
		if c.BestPrice() <= 0 {
			t.Errorf("%s has no price", c.Name)
		}
	}
	if cards[0].Name != "Miraidon ex" || cards[0].Number != "253" {
		t.Errorf("first card = %s #%s", cards[0].Name, cards[0].Number)
	}
}

func TestGet_UnknownSet(t *testing.T) {
	if got := Default().Get("sv99"); got != nil {
		t.Errorf("expected nil for unmapped set, got %d cards", len(got))
	}
	if Default().Has("sv99") {
		t.Error("Has(sv99) should be false")
	}
}

func TestLookup(t *testing.T) {
	tbl := Default()
	tests := []struct {
		name   string
		set    string
		card   string
		number string
		want   float64
		wantOK bool
	}{
		{"exact", "sv-151", "Charizard ex", "199", 145.00, true},
		{"case insensitive", "sv-151", "charizard EX", "", 145.00, true},
		{"printing by number", "sv1", "Gardevoir ex", "228", 12.10, true},
		{"other printing by number", "sv1", "Gardevoir ex", "245", 38.75, true},
		{"padded number", "sv3", "Charizard ex", "0215/197", 24.00, true},
		{"unknown number falls back to name", "sv3", "Charizard ex", "999", 72.00, true},
		{"query contains entry", "sv-151", "Mew ex Hyper Rare", "", 33.10, true},
		{"entry contains query", "sv-151", "Blastoise", "", 62.50, true},
		{"partial word does not match", "sv2", "Iono's Bellibolt ex", "", 0, false},
		{"missing card", "sv-151", "Snorlax", "", 0, false},
		{"missing set", "sv99", "Charizard ex", "", 0, false},
		{"blank", "sv1", "  ", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tbl.Lookup(tt.set, tt.card, tt.number)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%s, %s, %s) = %v, %v; want %v, %v", tt.set, tt.card, tt.number, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLoad_RejectsBadEntries(t *testing.T) {
	if _, err := Load([]byte("sv1:\n  - {name: X, price: 0}")); err == nil {
		t.Error("expected error for zero price")
	}
	if _, err := Load([]byte("sv1: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestCuratedSetsAreMapped(t *testing.T) {
	reg := sets.Default()
	for setID := range Default().sets {
		if !reg.Known(setID) {
			t.Errorf("fallback set %q is not in the set table", setID)
		}
	}
}
