package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/quality"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Nippon ...", truncate("Nippon Sustain", 10))
	assert.Equal(t, "Zürich ...", truncate("Zürich Energie", 10))
}

func TestFormatMetrics(t *testing.T) {
	var buf bytes.Buffer
	formatMetrics(&buf, pipeline.Metrics{Prospects: 12, Countries: 12, Companies: 12, CEOs: 3, Domains: 10, Overdue: 2})
	out := buf.String()
	assert.Contains(t, out, "Prospects: 12")
	assert.Contains(t, out, "CEOs: 3")
	assert.Contains(t, out, "Unique domains: 10")
	assert.Contains(t, out, "Overdue follow-ups: 2")
}

func TestFormatProspects(t *testing.T) {
	next := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	rows := []model.Prospect{
		{Name: "Aisha Tan", Company: "SolarFuture", Role: "CEO", Country: "Singapore", Region: model.RegionAPAC, Score: 6, NextFollowUp: &next, Overdue: true},
		{Name: "Elena Rossi", Company: "EcoItalia", Country: "Italy", Region: model.RegionEMEA, Score: 1},
	}

	var buf bytes.Buffer
	formatProspects(&buf, rows)
	out := buf.String()

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Aisha Tan")
	assert.Contains(t, out, "6.00")
	assert.Contains(t, out, "2025-09-19")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "EcoItalia")
}

func TestFormatColumns(t *testing.T) {
	desc := pipeline.Columns{
		Source:  "leads.csv",
		Columns: []string{"Full Name", "Mail", "Org"},
		Mapping: map[string]string{"name": "Full Name", "email": "Mail"},
		Missing: []string{"Company", "Country"},
	}

	var buf bytes.Buffer
	formatColumns(&buf, desc, []string{"Leads", "Archive"})
	out := buf.String()

	assert.Contains(t, out, "Source:  leads.csv")
	assert.Contains(t, out, "Sheets:  Leads, Archive")
	assert.Contains(t, out, "Full Name, Mail, Org")
	assert.Contains(t, out, "Full Name")
	assert.Contains(t, out, "(unmapped)")
}

func TestFormatQuality(t *testing.T) {
	r := quality.Analyze([]model.Prospect{
		{Name: "A", Email: "a@x.com", Company: "X"},
		{Name: "B", Email: "A@x.com", Company: "Y"},
		{Name: "C", Email: "", Company: "Z"},
		{Name: "D", Email: "not-an-email", Company: "W"},
	})

	var buf bytes.Buffer
	formatQuality(&buf, r, false)
	out := buf.String()
	assert.Contains(t, out, "Invalid emails")
	assert.Contains(t, out, "Missing emails")
	assert.NotContains(t, out, "not-an-email")

	buf.Reset()
	formatQuality(&buf, r, true)
	out = buf.String()
	assert.Contains(t, out, "not-an-email")
	assert.Contains(t, out, "Duplicate emails:")
	assert.NotContains(t, out, "Duplicate name+company:")
}

func TestFormatSummary(t *testing.T) {
	s := pipeline.Summary{
		ByRegion:     []pipeline.Count{{Label: "APAC", Prospects: 6}},
		TopCountries: []pipeline.Count{{Label: "Japan", Prospects: 1}},
		Companies:    []pipeline.CompanyRow{{Company: "K-EV", Prospects: 1, Countries: 1, Regions: 1}},
		Roles:        []pipeline.Count{{Label: "Ceo", Prospects: 3}},
		Funnel:       []pipeline.Count{{Label: "New", Prospects: 5}, {Label: "Won", Prospects: 0}},
	}

	var buf bytes.Buffer
	formatSummary(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "Prospects by region")
	assert.Contains(t, out, "APAC")
	assert.Contains(t, out, "K-EV")
	assert.Contains(t, out, "Pipeline funnel")
	assert.Contains(t, out, "Won")
}

func TestFormatContacts(t *testing.T) {
	last := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	rows := []model.Prospect{
		{Name: "John Smith", Email: "john@us-ev.org", Company: "EV Alliance", Role: "CEO", Country: "United States",
			Owner: "Luis", PresentInCRM: "Yes", LastContactedAt: &last, Score: 5.75, Notes: "Decision maker"},
		{Name: "Li Wei", Phone: "+86 10 8888 0000", Company: "China EV", Country: "China"},
		{Name: "Nobody", Company: "Ghost"},
	}

	var buf bytes.Buffer
	formatContacts(&buf, rows)
	out := buf.String()

	assert.Contains(t, out, "John Smith  [score 5.75]")
	assert.Contains(t, out, "email: john@us-ev.org")
	assert.Contains(t, out, "Last contacted: 2025-09-10")
	assert.Contains(t, out, "Decision maker")
	assert.Contains(t, out, "phone: +86 10 8888 0000")
	assert.Contains(t, out, "none: -")
	assert.Contains(t, out, "- @ China EV")
}
