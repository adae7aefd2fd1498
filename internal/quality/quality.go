// Package quality reports email validity and duplicate diagnostics over the
// unfiltered prospect list.
package quality

import (
	"regexp"
	"sort"
	"strings"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

var emailRe = regexp.MustCompile(`(?i)^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Check names.
const (
	InvalidEmail         = "invalid_email"
	MissingEmail         = "missing_email"
	DuplicateEmail       = "duplicate_email"
	DuplicateNameCompany = "duplicate_name_company"
)

// Check is one diagnostic: the flagged row positions in the input and the
// flagged rows in drill-down order.
type Check struct {
	Name    string           `json:"name"`
	Label   string           `json:"label"`
	Count   int              `json:"count"`
	Indices []int            `json:"indices"`
	Rows    []model.Prospect `json:"rows"`
}

// Report holds the four independent checks. A row may appear in several.
type Report struct {
	InvalidEmail         Check `json:"invalid_email"`
	MissingEmail         Check `json:"missing_email"`
	DuplicateEmail       Check `json:"duplicate_email"`
	DuplicateNameCompany Check `json:"duplicate_name_company"`
}

// Checks returns the checks in display order.
func (r Report) Checks() []Check {
	return []Check{r.InvalidEmail, r.MissingEmail, r.DuplicateEmail, r.DuplicateNameCompany}
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Analyze runs every check over rows.
func Analyze(rows []model.Prospect) Report {
	emailCounts := map[string]int{}
	nameCompanyCounts := map[string]int{}
	for i := range rows {
		if strings.Contains(rows[i].Email, "@") {
			emailCounts[strings.ToLower(rows[i].Email)]++
		}
		nameCompanyCounts[nameCompanyKey(&rows[i])]++
	}

	var invalid, missing, dupEmail, dupNC []int
	for i := range rows {
		p := &rows[i]
		if p.Email == "" {
			missing = append(missing, i)
		} else if !ValidEmail(p.Email) {
			invalid = append(invalid, i)
		}
		if strings.Contains(p.Email, "@") && emailCounts[strings.ToLower(p.Email)] > 1 {
			dupEmail = append(dupEmail, i)
		}
		if nameCompanyCounts[nameCompanyKey(p)] > 1 {
			dupNC = append(dupNC, i)
		}
	}

	// Duplicates are listed grouped together.
	dupEmailRows := pick(rows, dupEmail)
	sort.SliceStable(dupEmailRows, func(i, j int) bool {
		return strings.ToLower(dupEmailRows[i].Email) < strings.ToLower(dupEmailRows[j].Email)
	})
	dupNCRows := pick(rows, dupNC)
	sort.SliceStable(dupNCRows, func(i, j int) bool {
		a, b := dupNCRows[i], dupNCRows[j]
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		return a.Name < b.Name
	})

	return Report{
		InvalidEmail:         newCheck(InvalidEmail, "Invalid emails", invalid, pick(rows, invalid)),
		MissingEmail:         newCheck(MissingEmail, "Missing emails", missing, pick(rows, missing)),
		DuplicateEmail:       newCheck(DuplicateEmail, "Duplicate emails", dupEmail, dupEmailRows),
		DuplicateNameCompany: newCheck(DuplicateNameCompany, "Duplicate name+company", dupNC, dupNCRows),
	}
}

func nameCompanyKey(p *model.Prospect) string {
	return strings.ToLower(p.Name + "|" + p.Company)
}

func pick(rows []model.Prospect, idx []int) []model.Prospect {
	out := make([]model.Prospect, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

func newCheck(name, label string, idx []int, rows []model.Prospect) Check {
	if idx == nil {
		idx = []int{}
	}
	return Check{Name: name, Label: label, Count: len(idx), Indices: idx, Rows: rows}
}
