// Package sets maps UI set identifiers onto the identifier schemes of the
// catalog and price upstreams.
package sets

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guarzo/pkmchase/internal/model"
)

//go:embed sets.yaml
var embedded []byte

// Mapper translates UI set ids for one upstream. It is read-only after
// construction and safe for concurrent use.
type Mapper struct {
	ids map[string]string
}

// Resolve returns the upstream identifier for uiID.
func (m *Mapper) Resolve(uiID string) (string, error) {
	if id, ok := m.ids[strings.TrimSpace(uiID)]; ok {
		return id, nil
	}
	return "", &model.UnsupportedSetError{SetID: uiID}
}

// Registry holds the dropdown options and one Mapper per upstream.
type Registry struct {
	options []model.Set
	Catalog *Mapper
	Price   *Mapper
}

type fileEntry struct {
	model.Set `yaml:",inline"`
	Catalog   string `yaml:"catalog"`
	Price     string `yaml:"price"`
}

// Load parses a set table. Every entry needs an id, a name and both
// upstream identifiers; ids must be unique.
func Load(data []byte) (*Registry, error) {
	var file struct {
		Sets []fileEntry `yaml:"sets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse set table: %w", err)
	}
	if len(file.Sets) == 0 {
		return nil, fmt.Errorf("set table is empty")
	}

	r := &Registry{
		Catalog: &Mapper{ids: make(map[string]string, len(file.Sets))},
		Price:   &Mapper{ids: make(map[string]string, len(file.Sets))},
	}
	for i, e := range file.Sets {
		if e.ID == "" || e.Name == "" || e.Catalog == "" || e.Price == "" {
			return nil, fmt.Errorf("set table entry %d (%q): id, name, catalog and price are required", i, e.ID)
		}
		if _, dup := r.Catalog.ids[e.ID]; dup {
			return nil, fmt.Errorf("set table: duplicate id %q", e.ID)
		}
		r.Catalog.ids[e.ID] = e.Catalog
		r.Price.ids[e.ID] = e.Price
		r.options = append(r.options, e.Set)
	}
	return r, nil
}

var defaultRegistry = mustLoad(embedded)

func mustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry built from the embedded table.
func Default() *Registry { return defaultRegistry }

// Options returns the dropdown entries in table order.
func (r *Registry) Options() []model.Set {
	return append([]model.Set(nil), r.options...)
}

// Known reports whether uiID is in the table.
func (r *Registry) Known(uiID string) bool {
	_, err := r.Catalog.Resolve(uiID)
	return err == nil
}

// Lookup returns the dropdown entry for uiID.
func (r *Registry) Lookup(uiID string) (model.Set, bool) {
	for _, s := range r.options {
		if s.ID == uiID {
			return s, true
		}
	}
	return model.Set{}, false
}
