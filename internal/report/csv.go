// Package report exports ranked chase cards for spreadsheets.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/model"
)

// Header is the column layout written by WriteCSV.
var Header = []string{"rank", "set_id", "number", "name", "rarity", "price_gbp", "source", "live", "image_url"}

// formula prefixes a spreadsheet may evaluate
const formulaLead = "=+-@|%\t\r\n"

// EscapeCell neutralizes values a spreadsheet would read as a formula.
// Card names come from upstream catalogs, so they are never trusted.
func EscapeCell(value string) string {
	if value != "" && strings.ContainsRune(formulaLead, rune(value[0])) {
		return "'" + value
	}
	return value
}

// Row renders one ranked card with every cell escaped.
func Row(setID string, c model.RankedCard) []string {
	row := []string{
		strconv.Itoa(c.Rank),
		setID,
		c.Number,
		c.Name,
		c.Rarity,
		strconv.FormatFloat(c.BestPrice(), 'f', 2, 64),
		c.BestSource().Label(),
		strconv.FormatBool(c.HasLivePricing),
		c.ImageURL,
	}
	for i := range row {
		row[i] = EscapeCell(row[i])
	}
	return row
}

// WriteCSV writes the header and one row per card.
func WriteCSV(w io.Writer, res chase.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, c := range res.Cards {
		if err := cw.Write(Row(res.SetID, c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
