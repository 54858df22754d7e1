// Package pricing resolves a single market price from the loosely shaped
// per-marketplace payloads returned by the price and catalog sources.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/guarzo/pkmchase/internal/model"
)

// Rule names reported in Extraction.Rule.
const (
	RuleTopLevel      = "top-level"
	RuleVariantMarket = "variant-market"
	RuleVariantMid    = "variant-mid"
	RuleGrade         = "grade"
	RuleNone          = ""
)

// Extraction is a price in the source's native currency.
type Extraction struct {
	Market float64
	Low    float64
	High   float64
	Rule   string
}

// Variant groups are checked in this order; the first with a usable value wins.
var variantOrder = []string{
	"holofoil",
	"normal",
	"reverseHolofoil",
	"1stEditionHolofoil",
	"unlimitedHolofoil",
	"1stEditionNormal",
}

// Grades are checked best first.
var gradeOrder = []string{
	"psa10", "bgs10", "cgc10", "bgs9_5", "psa9", "cgc9", "psa8", "ungraded",
}

var (
	marketKeys     = []string{"market", "marketPrice", "price"}
	regionalKeys   = []string{"market", "marketPrice", "price", "trendPrice", "averageSellPrice", "avg30"}
	variantGroups  = []string{"prices", "variants"}
	gradeGroups    = []string{"grades", "salesByGrade"}
	gradeValueKeys = []string{"market", "average", "averagePrice", "median"}
)

type rule struct {
	name    string
	applies func(model.Source) bool
	extract func(src model.Source, raw map[string]any) (Extraction, bool)
}

func allSources(model.Source) bool { return true }

// rules is evaluated top to bottom; the first rule yielding a positive
// market value decides the extraction.
var rules = []rule{
	{name: RuleTopLevel, applies: allSources, extract: topLevel},
	{name: RuleVariantMarket, applies: allSources, extract: variantField("market")},
	{name: RuleVariantMid, applies: allSources, extract: variantField("mid")},
	{name: RuleGrade, applies: func(s model.Source) bool { return s == model.SourceEbay }, extract: byGrade},
}

// Extract returns the best-available market price for one source's raw
// payload. A zero Market means the source has no usable price.
func Extract(src model.Source, raw map[string]any) Extraction {
	if len(raw) == 0 {
		return Extraction{}
	}
	for _, r := range rules {
		if !r.applies(src) {
			continue
		}
		if ext, ok := r.extract(src, raw); ok {
			ext.Rule = r.name
			return ext
		}
	}
	return Extraction{}
}

func topLevel(src model.Source, raw map[string]any) (Extraction, bool) {
	keys := marketKeys
	if src == model.SourceCardmarket {
		keys = regionalKeys
	}
	return readAt(raw, keys)
}

func variantField(field string) func(model.Source, map[string]any) (Extraction, bool) {
	return func(_ model.Source, raw map[string]any) (Extraction, bool) {
		group := firstMap(raw, variantGroups)
		if group == nil {
			return Extraction{}, false
		}
		for _, variant := range variantOrder {
			v := asMap(lookup(group, variant))
			if v == nil {
				continue
			}
			if ext, ok := readAt(v, []string{field}); ok {
				return ext, true
			}
		}
		return Extraction{}, false
	}
}

func byGrade(_ model.Source, raw map[string]any) (Extraction, bool) {
	group := firstMap(raw, gradeGroups)
	if group == nil {
		return Extraction{}, false
	}
	for _, grade := range gradeOrder {
		g := lookup(group, grade)
		// A grade may be a bare number or an object of statistics.
		if n, ok := number(g); ok && n > 0 {
			return Extraction{Market: n, Low: n, High: n}, true
		}
		if m := asMap(g); m != nil {
			if ext, ok := readAt(m, gradeValueKeys); ok {
				return ext, true
			}
		}
	}
	return Extraction{}, false
}

// readAt reads the first positive value among keys from m, plus the low and
// high bounds beside it. Missing bounds default to the market value.
func readAt(m map[string]any, keys []string) (Extraction, bool) {
	for _, k := range keys {
		n, ok := number(lookup(m, k))
		if !ok || n <= 0 {
			continue
		}
		ext := Extraction{Market: n, Low: n, High: n}
		if low, ok := number(lookup(m, "low")); ok && low > 0 {
			ext.Low = low
		}
		if high, ok := number(lookup(m, "high")); ok && high > 0 {
			ext.High = high
		}
		return ext, true
	}
	return Extraction{}, false
}

func firstMap(m map[string]any, keys []string) map[string]any {
	for _, k := range keys {
		if v := asMap(lookup(m, k)); v != nil {
			return v
		}
	}
	return nil
}

// lookup matches keys exactly first, then case-insensitively, since the two
// upstreams disagree on key casing.
func lookup(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	// Several keys may fold to the same name; the smallest wins so repeated
	// extractions agree.
	var (
		match string
		found bool
	)
	for k := range m {
		if strings.EqualFold(k, key) && (!found || k < match) {
			match, found = k, true
		}
	}
	if !found {
		return nil
	}
	return m[match]
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(n), "$"), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
