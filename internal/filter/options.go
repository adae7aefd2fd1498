package filter

import (
	"sort"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// Choices holds the values offered by each multi-select control.
type Choices struct {
	Regions    []model.Region `json:"regions"`
	Countries  []string       `json:"countries"`
	Companies  []string       `json:"companies"`
	Owners     []string       `json:"owners"`
	Domains    []string       `json:"domains"`
	Statuses   []string       `json:"statuses"`
	Priorities []string       `json:"priorities"`
}

// Options lists the sorted distinct values present in rows. Empty owners,
// statuses and priorities appear as their sentinel; empty countries,
// companies and domains are left out.
func Options(rows []model.Prospect) Choices {
	regions := map[model.Region]bool{}
	countries := map[string]bool{}
	companies := map[string]bool{}
	owners := map[string]bool{}
	domains := map[string]bool{}
	statuses := map[string]bool{}
	priorities := map[string]bool{}

	for i := range rows {
		p := &rows[i]
		regions[p.Region] = true
		addNonEmpty(countries, p.Country)
		addNonEmpty(companies, p.Company)
		addNonEmpty(domains, p.EmailDomain)
		owners[orSentinel(p.Owner, Unassigned)] = true
		statuses[orSentinel(p.Status, Blank)] = true
		priorities[orSentinel(p.Priority, Blank)] = true
	}

	c := Choices{
		Regions:    make([]model.Region, 0, len(regions)),
		Countries:  sortedKeys(countries),
		Companies:  sortedKeys(companies),
		Owners:     sortedKeys(owners),
		Domains:    sortedKeys(domains),
		Statuses:   sortedKeys(statuses),
		Priorities: sortedKeys(priorities),
	}
	for r := range regions {
		c.Regions = append(c.Regions, r)
	}
	sort.Slice(c.Regions, func(i, j int) bool { return c.Regions[i] < c.Regions[j] })
	return c
}

func addNonEmpty(set map[string]bool, v string) {
	if v != "" {
		set[v] = true
	}
}

func orSentinel(v, sentinel string) string {
	if v == "" {
		return sentinel
	}
	return v
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
