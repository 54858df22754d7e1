package rarity

import (
	"testing"

	"github.com/guarzo/pkmchase/internal/model"
)

func TestPriorityStrictlyIncreasing(t *testing.T) {
	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		if Priority(tiers[i]) <= Priority(tiers[i-1]) {
			t.Errorf("priority(%q)=%d not greater than priority(%q)=%d",
				tiers[i], Priority(tiers[i]), tiers[i-1], Priority(tiers[i-1]))
		}
	}
	if Unranked <= len(tiers) {
		t.Errorf("Unranked (%d) must exceed table length %d", Unranked, len(tiers))
	}
}

func TestIsChase(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Special Illustration Rare", true},
		{"special illustration rare", true},
		{"  Hyper   Rare ", true},
		{"Rare Secret", true},
		{"Common", false},
		{"Uncommon", false},
		{"Rare", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsChase(tt.label); got != tt.want {
			t.Errorf("IsChase(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestPriorityUnknownLabel(t *testing.T) {
	for _, label := range []string{"Common", "Promo", "Rare Holo"} {
		p := Priority(label)
		if p != Unranked {
			t.Errorf("Priority(%q) = %d, want Unranked", label, p)
		}
		for _, tier := range Tiers() {
			if p <= Priority(tier) {
				t.Errorf("unknown label priority %d does not exceed %q", p, tier)
			}
		}
	}
}

func TestFilterChase(t *testing.T) {
	cards := []model.Card{
		{ID: "a", Rarity: "Ultra Rare"},
		{ID: "b", Rarity: "Common"},
		{ID: "c", Rarity: "Special Illustration Rare"},
		{ID: "d", Rarity: "Ultra Rare"},
		{ID: "e", Rarity: "Hyper Rare"},
		{ID: "f", Rarity: "Rare"},
	}

	got := FilterChase(cards)
	want := []string{"c", "e", "a", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %d cards, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestTiersIsCopy(t *testing.T) {
	tiers := Tiers()
	tiers[0] = "Common"
	if IsChase("Common") {
		t.Error("mutating Tiers() result must not change the table")
	}
}
