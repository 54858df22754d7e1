// Package fallback serves the curated chase-card table used whenever live
// pricing is unavailable.
package fallback

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guarzo/pkmchase/internal/model"
)

//go:embed fallback.yaml
var embedded []byte

// Entry is one curated card price in the display currency.
type Entry struct {
	Name   string  `yaml:"name"`
	Number string  `yaml:"number"`
	Rarity string  `yaml:"rarity"`
	Price  float64 `yaml:"price"`
}

// Table is keyed by UI set id. It is never mutated after Load.
type Table struct {
	sets map[string][]Entry
}

// Load parses a fallback table. Prices must be positive.
func Load(data []byte) (*Table, error) {
	var sets map[string][]Entry
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse fallback table: %w", err)
	}
	for setID, entries := range sets {
		for i, e := range entries {
			if e.Name == "" || e.Price <= 0 {
				return nil, fmt.Errorf("fallback table %s[%d]: name and positive price required", setID, i)
			}
		}
	}
	return &Table{sets: sets}, nil
}

var defaultTable = func() *Table {
	t, err := Load(embedded)
	if err != nil {
		panic(err)
	}
	return t
}()

// Default returns the embedded table.
func Default() *Table { return defaultTable }

// Get returns the curated cards for setID ranked 1..n in table order, or nil
// for sets without curated data.
func (t *Table) Get(setID string) []model.RankedCard {
	entries := t.sets[setID]
	if len(entries) == 0 {
		return nil
	}
	out := make([]model.RankedCard, 0, len(entries))
	for i, e := range entries {
		out = append(out, model.RankedCard{
			Card: model.Card{
				ID:     fmt.Sprintf("%s-%s", setID, e.Number),
				Number: e.Number,
				Name:   e.Name,
				Rarity: e.Rarity,
				SetID:  setID,
			},
			Quotes: []model.PriceQuote{{
				Source: model.SourceFallback,
				Market: e.Price,
				Low:    e.Price,
				High:   e.Price,
			}},
			Rank: i + 1,
		})
	}
	return out
}

// Lookup finds a curated price for one printing. Entries are tried by
// case-insensitive name and collector number, then by name alone, then by
// whole-word containment of one name in the other.
func (t *Table) Lookup(setID, cardName, number string) (float64, bool) {
	entries := t.sets[setID]
	query := strings.Fields(strings.ToLower(cardName))
	if len(query) == 0 {
		return 0, false
	}
	for _, e := range entries {
		if sameWords(e.Name, query) && model.SameNumber(e.Number, number) {
			return e.Price, true
		}
	}
	for _, e := range entries {
		if sameWords(e.Name, query) {
			return e.Price, true
		}
	}
	for _, e := range entries {
		name := strings.Fields(strings.ToLower(e.Name))
		if containsWords(query, name) || containsWords(name, query) {
			return e.Price, true
		}
	}
	return 0, false
}

func sameWords(name string, query []string) bool {
	words := strings.Fields(strings.ToLower(name))
	return len(words) == len(query) && containsWords(words, query)
}

// containsWords reports whether sub appears as a contiguous run of whole
// words in words, so "iono" does not match "iono's bellibolt ex".
func containsWords(words, sub []string) bool {
	if len(sub) == 0 || len(sub) > len(words) {
		return false
	}
	for i := 0; i+len(sub) <= len(words); i++ {
		match := true
		for j := range sub {
			if words[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Has reports whether setID has curated data.
func (t *Table) Has(setID string) bool {
	return len(t.sets[setID]) > 0
}
