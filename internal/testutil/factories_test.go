package testutil

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewTestDataFactory(t *testing.T) {
	// Should generate same values with same seed
	cards1 := NewTestDataFactory(12345).GenerateCatalogCards("sv1", 5)
	cards2 := NewTestDataFactory(12345).GenerateCatalogCards("sv1", 5)

	if !reflect.DeepEqual(cards1, cards2) {
		t.Error("factories with same seed should generate same values")
	}
	if len(cards1) != 5 {
		t.Errorf("expected 5 cards, got %d", len(cards1))
	}
}

func TestGenerateTestPrice(t *testing.T) {
	factory := NewTestDataFactory(0)
	for i := 0; i < 100; i++ {
		price := factory.GenerateTestPrice()
		if price < 1 || price > 500 {
			t.Fatalf("price out of range: %v", price)
		}
	}
}

func TestCatalogCard(t *testing.T) {
	card := CatalogCard("sv1-1", "Test Pikachu", "1", "Ultra Rare", "sv1", 10)
	if _, ok := card["tcgplayer"]; !ok {
		t.Error("expected tcgplayer block")
	}

	bare := CatalogCard("sv1-2", "Test Mewtwo", "2", "Common", "sv1", 0)
	if _, ok := bare["tcgplayer"]; ok {
		t.Error("zero price should omit tcgplayer block")
	}
}

func TestWrap(t *testing.T) {
	var out map[string][]map[string]any
	if err := json.Unmarshal(Wrap("data"), &out); err != nil {
		t.Fatalf("Wrap produced invalid JSON: %v", err)
	}
	if list, ok := out["data"]; !ok || len(list) != 0 {
		t.Errorf("expected empty data list, got %v", out)
	}

	body := Wrap("cards", PriceRecord("a", "A", "1", "Hyper Rare", 5))
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out["cards"]) != 1 {
		t.Errorf("expected one record, got %v", out)
	}
}
