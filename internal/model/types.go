package model

import "strings"

// Source identifies where a price quote came from.
type Source string

const (
	SourceTCGPlayer  Source = "tcgplayer"  // primary marketplace
	SourceEbay       Source = "ebay"       // secondary marketplace
	SourceCardmarket Source = "cardmarket" // regional marketplace
	SourceFallback   Source = "fallback"   // curated static table
)

// LiveSources lists the marketplaces a live payload may carry, in the order
// quotes are assembled.
var LiveSources = []Source{SourceTCGPlayer, SourceEbay, SourceCardmarket}

// Currency returns the native currency code of prices reported by the source.
func (s Source) Currency() string {
	switch s {
	case SourceTCGPlayer, SourceEbay:
		return "USD"
	case SourceCardmarket:
		return "EUR"
	case SourceFallback:
		return "GBP"
	default:
		return ""
	}
}

// Label is the human-readable marketplace name.
func (s Source) Label() string {
	switch s {
	case SourceTCGPlayer:
		return "TCGPlayer"
	case SourceEbay:
		return "eBay"
	case SourceCardmarket:
		return "Cardmarket"
	case SourceFallback:
		return "Sample data"
	default:
		return string(s)
	}
}

// Set is a dropdown entry: a UI-facing set identifier and its display name.
type Set struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Series string `json:"series,omitempty" yaml:"series"`
}

// Card is a single printing. Raw holds the loosely typed per-marketplace
// price payloads exactly as the upstream returned them; it may be nil.
type Card struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	Rarity   string `json:"rarity"`
	SetID    string `json:"setId"`
	SetName  string `json:"setName"`
	ImageURL string `json:"imageUrl,omitempty"`

	Raw map[Source]map[string]any `json:"-"`
}

// SameNumber reports whether two collector numbers name the same printing.
// Leading zeros and a "/total" suffix are ignored, so "025/198" matches "25".
// An empty number matches nothing.
func SameNumber(a, b string) bool {
	a, b = normalizeNumber(a), normalizeNumber(b)
	return a != "" && strings.EqualFold(a, b)
}

func normalizeNumber(n string) string {
	n = strings.TrimSpace(n)
	if i := strings.IndexByte(n, '/'); i >= 0 {
		n = n[:i]
	}
	if n == "" {
		return ""
	}
	if trimmed := strings.TrimLeft(n, "0"); trimmed != "" {
		return trimmed
	}
	return "0"
}

// PriceQuote is a normalized price in the display currency.
type PriceQuote struct {
	Source Source  `json:"source"`
	Market float64 `json:"market"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

// RankedCard is a card with its resolved quotes and final position.
type RankedCard struct {
	Card
	Quotes         []PriceQuote `json:"quotes"`
	Rank           int          `json:"rank"`
	HasLivePricing bool         `json:"hasLivePricing"`
}

// BestPrice is the highest market value across the card's quotes.
func (r RankedCard) BestPrice() float64 {
	best := 0.0
	for _, q := range r.Quotes {
		if q.Market > best {
			best = q.Market
		}
	}
	return best
}

// BestSource returns the source of the quote BestPrice was taken from.
func (r RankedCard) BestSource() Source {
	var src Source
	best := 0.0
	for _, q := range r.Quotes {
		if q.Market > best {
			best = q.Market
			src = q.Source
		}
	}
	return src
}
