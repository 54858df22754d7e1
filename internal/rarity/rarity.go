// Package rarity decides which rarity labels count as chase cards.
package rarity

import (
	"sort"
	"strings"

	"github.com/guarzo/pkmchase/internal/model"
)

// Unranked is the priority of labels outside the chase table. It sorts
// after every table entry.
const Unranked = 999

// chaseTiers lists chase rarities from most to least desirable.
var chaseTiers = []string{
	"Special Illustration Rare",
	"Hyper Rare",
	"Illustration Rare",
	"Ultra Rare",
	"Shiny Ultra Rare",
	"ACE SPEC Rare",
	"Double Rare",
	"Shiny Rare",
	"Rare Holo VMAX",
	"Rare Holo VSTAR",
	"Rare Holo V",
	"Rare Ultra",
	"Rare Rainbow",
	"Rare Secret",
	"Rare Gold",
}

var tierIndex = func() map[string]int {
	idx := make(map[string]int, len(chaseTiers))
	for i, label := range chaseTiers {
		idx[normalize(label)] = i
	}
	return idx
}()

func normalize(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// Tiers returns a copy of the chase table in priority order.
func Tiers() []string {
	return append([]string(nil), chaseTiers...)
}

// IsChase reports whether label is a chase rarity.
func IsChase(label string) bool {
	_, ok := tierIndex[normalize(label)]
	return ok
}

// Priority returns the label's position in the chase table, lower being more
// desirable, or Unranked.
func Priority(label string) int {
	if i, ok := tierIndex[normalize(label)]; ok {
		return i
	}
	return Unranked
}

// FilterChase keeps only chase-rarity cards and stable-sorts them by
// priority, so cards of equal tier keep their fetch order.
func FilterChase(cards []model.Card) []model.Card {
	out := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if IsChase(c.Rarity) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return Priority(out[i].Rarity) < Priority(out[j].Rarity)
	})
	return out
}
