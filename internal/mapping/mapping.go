// Package mapping resolves arbitrary source columns onto the canonical
// prospect fields.
package mapping

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// DefaultAliases lists, per canonical field, the source column names tried in
// priority order when guessing a mapping.
var DefaultAliases = map[model.Field][]string{
	model.FieldName:          {"name", "full name", "contact", "person"},
	model.FieldEmail:         {"email", "e-mail", "mail", "contact email"},
	model.FieldPhone:         {"phone", "mobile", "telephone", "tel", "phone number", "cell"},
	model.FieldCompany:       {"company", "organisation", "organization", "employer"},
	model.FieldRole:          {"role", "title", "job title", "position"},
	model.FieldCountry:       {"country", "nation", "location", "country name"},
	model.FieldStatus:        {"status", "stage", "pipeline", "funnel"},
	model.FieldPriority:      {"priority", "tier", "score"},
	model.FieldOwner:         {"owner", "assignee", "rep", "account owner"},
	model.FieldLastContacted: {"last_contacted", "last contacted", "last touch", "last reached"},
	model.FieldPresentInCRM:  {"present in crm", "present", "crm", "in crm", "crm_present", "crm present"},
	model.FieldNotes:         {"notes", "remarks", "comment", "description"},
}

// ErrUnknownColumn is returned when an override names a column the table lacks.
var ErrUnknownColumn = eris.New("mapping: unknown column")

// MappingError lists the required fields that have no source column.
type MappingError struct {
	Missing []string
}

func (e *MappingError) Error() string {
	return "Please map required columns: " + strings.Join(e.Missing, ", ")
}

// Mapping assigns at most one source column to each canonical field. A field
// absent from the map is unmapped.
type Mapping map[model.Field]string

// Guess picks a source column for every field whose aliases match. The first
// alias (in alias order) that equals any column name, case-insensitively,
// wins; among columns sharing that lowercase name the leftmost is used.
func Guess(columns []string, aliases map[model.Field][]string) Mapping {
	lower := make(map[string]string, len(columns))
	for _, c := range columns {
		key := strings.ToLower(c)
		if _, ok := lower[key]; !ok {
			lower[key] = c
		}
	}

	m := make(Mapping, len(model.Fields))
	for _, f := range model.Fields {
		for _, alias := range aliases[f] {
			if col, ok := lower[strings.ToLower(alias)]; ok {
				m[f] = col
				break
			}
		}
	}
	return m
}

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Set assigns column to field. The column must exist in columns.
func (m Mapping) Set(field model.Field, column string, columns []string) error {
	if !field.Valid() {
		return eris.Errorf("mapping: unknown field %q", field)
	}
	for _, c := range columns {
		if c == column {
			m[field] = column
			return nil
		}
	}
	return eris.Wrapf(ErrUnknownColumn, "mapping: column %q for %s", column, field.Label())
}

// Unset leaves field unmapped.
func (m Mapping) Unset(field model.Field) {
	delete(m, field)
}

// Column returns the source column of field and whether it is mapped.
func (m Mapping) Column(field model.Field) (string, bool) {
	c, ok := m[field]
	return c, ok && c != ""
}

// Missing returns the labels of required fields without a column, in field order.
func (m Mapping) Missing() []string {
	var missing []string
	for _, f := range model.Fields {
		if !f.Required() {
			continue
		}
		if _, ok := m.Column(f); !ok {
			missing = append(missing, f.Label())
		}
	}
	return missing
}

// Validate returns a *MappingError when a required field is unmapped.
func (m Mapping) Validate() error {
	if missing := m.Missing(); len(missing) > 0 {
		return &MappingError{Missing: missing}
	}
	return nil
}

// String renders the mapping as "field=column" pairs in field order.
func (m Mapping) String() string {
	parts := make([]string, 0, len(model.Fields))
	for _, f := range model.Fields {
		col, ok := m.Column(f)
		if !ok {
			col = "(unmapped)"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", f, col))
	}
	return strings.Join(parts, " ")
}

// Apply builds one prospect per source row holding the mapped raw values,
// trimmed. Unmapped optional fields are empty. Required fields are checked
// on the mapping only; rows with blank values are kept.
func Apply(raw *model.RawTable, m Mapping) ([]model.Prospect, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	idx := make(map[model.Field]int, len(model.Fields))
	for _, f := range model.Fields {
		col, ok := m.Column(f)
		if !ok {
			continue
		}
		i := raw.ColumnIndex(col)
		if i < 0 {
			return nil, eris.Wrapf(ErrUnknownColumn, "mapping: column %q for %s", col, f.Label())
		}
		idx[f] = i
	}

	out := make([]model.Prospect, len(raw.Rows))
	incomplete := 0
	for r := range raw.Rows {
		p := &out[r]
		for f, j := range idx {
			p.SetValue(f, strings.TrimSpace(raw.Cell(r, j)))
		}
		if p.Name == "" || p.Company == "" || p.Country == "" {
			incomplete++
		}
	}

	if incomplete > 0 {
		zap.L().Warn("mapping: rows with blank required values",
			zap.Int("incomplete", incomplete),
			zap.Int("rows", len(out)),
		)
	}
	return out, nil
}
