package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/model"
)

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"normal_text", "Charizard ex", "Charizard ex"},
		{"number", "145.00", "145.00"},
		{"safe_special", "#001", "#001"},
		{"internal_equal", "A=B", "A=B"},

		{"formula_equal", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"formula_plus", "+123", "'+123"},
		{"formula_minus", "-123", "'-123"},
		{"formula_at", "@SUM(A:A)", "'@SUM(A:A)"},
		{"formula_pipe", "|echo test", "'|echo test"},
		{"formula_percent", "%PATH%", "'%PATH%"},

		{"tab_start", "\t=EXEC()", "'\t=EXEC()"},
		{"newline_start", "\n=FORMULA()", "'\n=FORMULA()"},
		{"carriage_return", "\r=DATA()", "'\r=DATA()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCell(tt.input); got != tt.expected {
				t.Errorf("EscapeCell(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	res := chase.Result{
		SetID: "sv1",
		Cards: []model.RankedCard{
			{
				Card:           model.Card{Name: "Miraidon ex", Number: "253", Rarity: "Hyper Rare"},
				Quotes:         []model.PriceQuote{{Source: model.SourceTCGPlayer, Market: 79}},
				Rank:           1,
				HasLivePricing: true,
			},
			{
				Card:   model.Card{Name: "=HYPERLINK(\"x\")", Number: "245", Rarity: "Special Illustration Rare"},
				Quotes: []model.PriceQuote{{Source: model.SourceFallback, Market: 11.5}},
				Rank:   2,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if got := records[1]; got[0] != "1" || got[3] != "Miraidon ex" || got[5] != "79.00" || got[6] != "TCGPlayer" || got[7] != "true" {
		t.Errorf("unexpected first row %q", got)
	}
	if got := records[2]; got[3] != "'=HYPERLINK(\"x\")" || got[5] != "11.50" || got[6] != "Sample data" {
		t.Errorf("unexpected second row %q", got)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, chase.Result{SetID: "sv99"}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.String() != "rank,set_id,number,name,rarity,price_gbp,source,live,image_url\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
