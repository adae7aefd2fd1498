// Package filter narrows a normalized prospect list by the sidebar controls.
package filter

import (
	"sort"
	"strings"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// Sentinels shown in option lists for empty values.
const (
	Unassigned = "(unassigned)"
	Blank      = "(blank)"
)

// CRM filter values.
const (
	CRMAll = "All"
	CRMYes = model.CRMYes
	CRMNo  = model.CRMNo
)

// Spec is one snapshot of the filter controls. Empty sets and strings do not
// restrict. Owners accepts Unassigned; Statuses and Priorities accept Blank.
type Spec struct {
	Regions      []model.Region `json:"regions,omitempty"`
	Countries    []string       `json:"countries,omitempty"`
	Companies    []string       `json:"companies,omitempty"`
	Owners       []string       `json:"owners,omitempty"`
	RoleContains string         `json:"role_contains,omitempty"`
	Domains      []string       `json:"domains,omitempty"`
	HideGeneric  bool           `json:"hide_generic,omitempty"`
	Statuses     []string       `json:"statuses,omitempty"`
	Priorities   []string       `json:"priorities,omitempty"`
	CRM          string         `json:"crm,omitempty" validate:"omitempty,oneof=All Yes No"`
	Query        string         `json:"query,omitempty"`
	UniqueEmails bool           `json:"unique_emails,omitempty"`
}

type predicate func(p *model.Prospect) bool

// predicates returns the active predicates in their fixed order.
func (s Spec) predicates() []predicate {
	var preds []predicate

	if len(s.Regions) > 0 {
		set := make(map[model.Region]bool, len(s.Regions))
		for _, r := range s.Regions {
			set[r] = true
		}
		preds = append(preds, func(p *model.Prospect) bool { return set[p.Region] })
	}
	if len(s.Countries) > 0 {
		set := toSet(s.Countries, "")
		preds = append(preds, func(p *model.Prospect) bool { return set[p.Country] })
	}
	if len(s.Companies) > 0 {
		set := toSet(s.Companies, "")
		preds = append(preds, func(p *model.Prospect) bool { return set[p.Company] })
	}
	if len(s.Owners) > 0 {
		set := toSet(s.Owners, Unassigned)
		preds = append(preds, func(p *model.Prospect) bool { return set[p.Owner] })
	}
	if role := strings.ToLower(strings.TrimSpace(s.RoleContains)); role != "" {
		preds = append(preds, func(p *model.Prospect) bool {
			return strings.Contains(strings.ToLower(p.Role), role)
		})
	}
	if len(s.Domains) > 0 {
		set := toSet(s.Domains, "")
		preds = append(preds, func(p *model.Prospect) bool { return set[p.EmailDomain] })
	}
	if s.HideGeneric {
		preds = append(preds, func(p *model.Prospect) bool { return !p.IsGenericDomain })
	}
	if len(s.Statuses) > 0 {
		set := toSet(s.Statuses, Blank)
		preds = append(preds, func(p *model.Prospect) bool { return set[p.Status] })
	}
	if len(s.Priorities) > 0 {
		set := toSet(s.Priorities, Blank)
		preds = append(preds, func(p *model.Prospect) bool { return set[p.Priority] })
	}
	if s.CRM != "" && s.CRM != CRMAll {
		crm := s.CRM
		preds = append(preds, func(p *model.Prospect) bool { return p.PresentInCRM == crm })
	}
	if q := strings.ToLower(strings.TrimSpace(s.Query)); q != "" {
		preds = append(preds, func(p *model.Prospect) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Company), q)
		})
	}
	return preds
}

// toSet builds a membership set, translating sentinel back to "".
func toSet(values []string, sentinel string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if sentinel != "" && v == sentinel {
			v = ""
		}
		set[v] = true
	}
	return set
}

// Active reports whether any control restricts the result.
func (s Spec) Active() bool {
	return len(s.predicates()) > 0 || s.UniqueEmails
}

// Apply returns the rows matching every active predicate, in input order.
// With UniqueEmails the result is sorted by Email and only the first row of
// each Email is kept; rows with an empty Email collapse to one.
func Apply(rows []model.Prospect, s Spec) []model.Prospect {
	preds := s.predicates()

	out := make([]model.Prospect, 0, len(rows))
rows:
	for i := range rows {
		for _, keep := range preds {
			if !keep(&rows[i]) {
				continue rows
			}
		}
		out = append(out, rows[i])
	}

	if s.UniqueEmails {
		out = dedupByEmail(out)
	}
	return out
}

func dedupByEmail(rows []model.Prospect) []model.Prospect {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Email < rows[j].Email })

	out := rows[:0]
	for _, p := range rows {
		if len(out) > 0 && out[len(out)-1].Email == p.Email {
			continue
		}
		out = append(out, p)
	}
	return out
}
