// Package pipeline ties the prospect stages together: a loaded table is
// mapped and normalized once per session, and every exploration filters and
// scores that normalized list from scratch.
package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/config"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/filter"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/mapping"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/normalize"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/quality"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/scorer"
)

// Session is one loaded file with its mapping and normalized prospects.
// It is never mutated; remapping builds a new session.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	Source    string           `json:"source"`
	Raw       *model.RawTable  `json:"-"`
	Mapping   mapping.Mapping  `json:"mapping"`
	Prospects []model.Prospect `json:"-"`
}

// NewSession maps and normalizes raw. It returns a *mapping.MappingError when
// a required field is unmapped.
func NewSession(raw *model.RawTable, m mapping.Mapping, today time.Time) (*Session, error) {
	if raw == nil {
		return nil, eris.New("pipeline: no table loaded")
	}

	rows, err := mapping.Apply(raw, m)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.New(),
		Source:    raw.Source,
		Raw:       raw,
		Mapping:   m.Clone(),
		Prospects: normalize.Normalize(rows, today),
	}

	zap.L().Info("pipeline: session ready",
		zap.String("session_id", s.ID.String()),
		zap.String("source", s.Source),
		zap.Int("columns", len(raw.Columns)),
		zap.Int("prospects", len(s.Prospects)),
	)
	return s, nil
}

// Remap builds a fresh session over the same table with a new mapping.
func (s *Session) Remap(m mapping.Mapping, today time.Time) (*Session, error) {
	return NewSession(s.Raw, m, today)
}

// Metrics are the headline counts of a filtered view.
type Metrics struct {
	Prospects int `json:"prospects"`
	Countries int `json:"countries"`
	Companies int `json:"companies"`
	CEOs      int `json:"ceos"`
	Domains   int `json:"domains"`
	Overdue   int `json:"overdue"`
}

// ComputeMetrics counts rows, distinct countries, companies and non-empty
// email domains, CEO roles and overdue follow-ups.
func ComputeMetrics(rows []model.Prospect) Metrics {
	countries := map[string]bool{}
	companies := map[string]bool{}
	domains := map[string]bool{}
	m := Metrics{Prospects: len(rows)}
	for i := range rows {
		p := &rows[i]
		countries[p.Country] = true
		companies[p.Company] = true
		if p.EmailDomain != "" {
			domains[p.EmailDomain] = true
		}
		if scorer.IsCEO(p.Role) {
			m.CEOs++
		}
		if p.Overdue {
			m.Overdue++
		}
	}
	m.Countries = len(countries)
	m.Companies = len(companies)
	m.Domains = len(domains)
	return m
}

// Result is one filtered and scored view.
type Result struct {
	Rows    []model.Prospect `json:"rows"`
	Metrics Metrics          `json:"metrics"`
}

// Explore filters the session's prospects by spec, then scores and
// schedules the surviving rows.
func (s *Session) Explore(spec filter.Spec, cadence config.CadenceConfig, today time.Time) (Result, error) {
	if err := scorer.ValidateCadence(cadence); err != nil {
		return Result{}, err
	}

	rows := scorer.Apply(filter.Apply(s.Prospects, spec), cadence, today)

	zap.L().Debug("pipeline: explore",
		zap.String("session_id", s.ID.String()),
		zap.Bool("filtered", spec.Active()),
		zap.Int("rows", len(rows)),
	)
	return Result{Rows: rows, Metrics: ComputeMetrics(rows)}, nil
}

// Quality runs the data quality checks over the unfiltered prospects.
func (s *Session) Quality() quality.Report {
	return quality.Analyze(s.Prospects)
}

// Options lists the filter choices present in the session.
func (s *Session) Options() filter.Choices {
	return filter.Options(s.Prospects)
}

// Columns describes the mapping state for the column picker.
type Columns struct {
	Source  string            `json:"source"`
	Sheet   string            `json:"sheet,omitempty"`
	Columns []string          `json:"columns"`
	Mapping map[string]string `json:"mapping"`
	Missing []string          `json:"missing"`
	Valid   bool              `json:"valid"`
}

// DescribeColumns reports the raw columns and how m assigns them.
func DescribeColumns(raw *model.RawTable, m mapping.Mapping) Columns {
	c := Columns{
		Source:  raw.Source,
		Sheet:   raw.Sheet,
		Columns: raw.Columns,
		Mapping: make(map[string]string, len(model.Fields)),
		Missing: m.Missing(),
	}
	for _, f := range model.Fields {
		col, _ := m.Column(f)
		c.Mapping[string(f)] = col
	}
	if c.Missing == nil {
		c.Missing = []string{}
	}
	c.Valid = len(c.Missing) == 0
	return c
}

// PreferredContact returns the channel to reach p: an email containing "@",
// else a non-blank phone, else "none".
func PreferredContact(p *model.Prospect) (channel, address string) {
	if strings.Contains(p.Email, "@") {
		return "email", p.Email
	}
	if phone := strings.TrimSpace(p.Phone); phone != "" {
		return "phone", phone
	}
	return "none", ""
}
