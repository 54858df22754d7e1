package pricing

import (
	"github.com/guarzo/pkmchase/internal/currency"
	"github.com/guarzo/pkmchase/internal/model"
)

// Quote extracts and converts one source's payload into the display
// currency. ok is false when the source has no usable price, including when
// the source's currency cannot be converted.
func Quote(src model.Source, raw map[string]any) (q model.PriceQuote, ok bool) {
	code := src.Currency()
	if !currency.Supported(code) {
		return model.PriceQuote{}, false
	}
	ext := Extract(src, raw)
	if ext.Market <= 0 {
		return model.PriceQuote{}, false
	}

	market, err := currency.Convert(ext.Market, code)
	if err != nil || market <= 0 {
		return model.PriceQuote{}, false
	}
	low, _ := currency.Convert(ext.Low, code)
	high, _ := currency.Convert(ext.High, code)

	return model.PriceQuote{Source: src, Market: market, Low: low, High: high}, true
}

// Quotes resolves every live source present on the card, skipping sources
// without a usable price.
func Quotes(card model.Card) []model.PriceQuote {
	var out []model.PriceQuote
	for _, src := range model.LiveSources {
		raw, ok := card.Raw[src]
		if !ok {
			continue
		}
		if q, ok := Quote(src, raw); ok {
			out = append(out, q)
		}
	}
	return out
}
