package mapping

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// Unmapped is the override value that clears a guessed column.
const Unmapped = "-"

// Overrides are manual column choices keyed by canonical field. An empty
// string or Unmapped clears the field.
type Overrides map[model.Field]string

// ParseOverrides reads "field=column" pairs, e.g. "name=Full Name" or
// "role=-". Field names accept keys and labels.
func ParseOverrides(pairs []string) (Overrides, error) {
	out := make(Overrides, len(pairs))
	for _, pair := range pairs {
		key, col, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, eris.Errorf("mapping: override %q must be field=column", pair)
		}
		f, ok := model.ParseField(key)
		if !ok {
			return nil, eris.Errorf("mapping: unknown field %q", key)
		}
		out[f] = strings.TrimSpace(col)
	}
	return out, nil
}

// LoadOverrides reads a YAML document of field: column pairs.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "mapping: read overrides %s", path)
	}

	var doc map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "mapping: parse overrides")
	}

	out := make(Overrides, len(doc))
	for key, col := range doc {
		f, ok := model.ParseField(key)
		if !ok {
			return nil, eris.Errorf("mapping: unknown field %q", key)
		}
		out[f] = strings.TrimSpace(col)
	}
	return out, nil
}

// Merge combines overrides; later sets win.
func Merge(sets ...Overrides) Overrides {
	out := make(Overrides)
	for _, s := range sets {
		for f, c := range s {
			out[f] = c
		}
	}
	return out
}

// Resolve starts from the alias guess for columns and applies overrides.
func Resolve(columns []string, ov Overrides) (Mapping, error) {
	m := Guess(columns, DefaultAliases)
	for f, col := range ov {
		if col == "" || col == Unmapped {
			m.Unset(f)
			continue
		}
		if err := m.Set(f, col, columns); err != nil {
			return nil, err
		}
	}
	return m, nil
}
