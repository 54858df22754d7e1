package testutil

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// TestDataFactory provides methods for generating dynamic test data
type TestDataFactory struct {
	rand *rand.Rand
}

// NewTestDataFactory creates a new test data factory with a seeded random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateTestCardNumber generates a random card number for testing
func (f *TestDataFactory) GenerateTestCardNumber() string {
	return fmt.Sprintf("%03d", f.rand.Intn(300)+1)
}

// GenerateTestCardName generates a random test card name
func (f *TestDataFactory) GenerateTestCardName() string {
	names := []string{"Test Pikachu", "Test Charizard", "Test Blastoise", "Test Venusaur", "Test Mewtwo"}
	return names[f.rand.Intn(len(names))]
}

// GenerateTestRarity picks a rarity label, chase or not
func (f *TestDataFactory) GenerateTestRarity() string {
	rarities := []string{"Common", "Uncommon", "Rare", "Double Rare", "Ultra Rare", "Illustration Rare", "Special Illustration Rare", "Hyper Rare"}
	return rarities[f.rand.Intn(len(rarities))]
}

// GenerateTestPrice generates a random USD price between $1 and $500
func (f *TestDataFactory) GenerateTestPrice() float64 {
	return float64(f.rand.Intn(49900)+100) / 100
}

// GenerateCatalogCards builds n catalog records with random rarities and
// tcgplayer holofoil prices.
func (f *TestDataFactory) GenerateCatalogCards(setID string, n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, CatalogCard(
			fmt.Sprintf("%s-%d", setID, i+1),
			f.GenerateTestCardName(),
			fmt.Sprint(i+1),
			f.GenerateTestRarity(),
			setID,
			f.GenerateTestPrice(),
		))
	}
	return out
}

// CatalogCard builds a pokemontcg.io card record. A zero holoUSD omits the
// tcgplayer block.
func CatalogCard(id, name, number, rarity, setID string, holoUSD float64) map[string]any {
	card := map[string]any{
		"id":     id,
		"name":   name,
		"number": number,
		"rarity": rarity,
		"set":    map[string]any{"id": setID, "name": "Test " + setID},
		"images": map[string]any{
			"small": "https://images.test/" + id + ".png",
			"large": "https://images.test/" + id + "_hires.png",
		},
	}
	if holoUSD > 0 {
		card["tcgplayer"] = map[string]any{
			"prices": map[string]any{"holofoil": map[string]any{"market": holoUSD}},
		}
	}
	return card
}

// PriceRecord builds a PokemonPriceTracker card record with a primary
// marketplace holofoil market price. A zero holoUSD leaves the block empty.
func PriceRecord(id, name, number, rarity string, holoUSD float64) map[string]any {
	record := map[string]any{
		"id":       id,
		"name":     name,
		"number":   number,
		"rarity":   rarity,
		"setName":  "Test Set",
		"imageUrl": "https://images.test/" + id + ".png",
	}
	if holoUSD > 0 {
		record["tcgplayer"] = map[string]any{
			"prices": map[string]any{"holofoil": map[string]any{"market": holoUSD}},
		}
	} else {
		record["tcgplayer"] = map[string]any{}
	}
	return record
}

// Wrap returns {"<key>": records} as JSON.
func Wrap(key string, records ...map[string]any) []byte {
	if records == nil {
		records = []map[string]any{}
	}
	return MustJSON(map[string]any{key: records})
}

// MustJSON marshals v or panics.
func MustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
