package pipeline

import (
	"sort"
	"strings"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/filter"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// FunnelStages is the fixed display order of pipeline stages.
var FunnelStages = []string{"New", "Contacted", "Replied", "Meeting", "Qualified", "Won", "Lost"}

// Count is a labeled row count.
type Count struct {
	Label     string `json:"label"`
	Prospects int    `json:"prospects"`
}

// CompanyRow summarizes one company.
type CompanyRow struct {
	Company   string `json:"company"`
	Prospects int    `json:"prospects"`
	Countries int    `json:"countries"`
	Regions   int    `json:"regions"`
}

// Summary bundles the chart aggregations of a filtered view.
type Summary struct {
	ByRegion     []Count      `json:"by_region"`
	TopCountries []Count      `json:"top_countries"`
	Companies    []CompanyRow `json:"companies"`
	Roles        []Count      `json:"roles"`
	Funnel       []Count      `json:"funnel"`
}

// Summarize builds every aggregation with the dashboard limits.
func Summarize(rows []model.Prospect) Summary {
	return Summary{
		ByRegion:     ByRegion(rows),
		TopCountries: TopCountries(rows, 20),
		Companies:    CompanySummary(rows),
		Roles:        RoleDistribution(rows, 30),
		Funnel:       Funnel(rows),
	}
}

// ProspectList returns rows sorted by region, country, company and name.
func ProspectList(rows []model.Prospect) []model.Prospect {
	out := append([]model.Prospect(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		return a.Name < b.Name
	})
	return out
}

// countBy tallies key over rows, skipping empty keys, sorted by count
// descending then label.
func countBy(rows []model.Prospect, key func(p *model.Prospect) string) []Count {
	counts := map[string]int{}
	for i := range rows {
		if k := key(&rows[i]); k != "" {
			counts[k]++
		}
	}
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Label: k, Prospects: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prospects != out[j].Prospects {
			return out[i].Prospects > out[j].Prospects
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// ByRegion counts prospects per region.
func ByRegion(rows []model.Prospect) []Count {
	return countBy(rows, func(p *model.Prospect) string { return string(p.Region) })
}

// TopCountries returns the n countries with the most prospects; n <= 0
// returns all.
func TopCountries(rows []model.Prospect, n int) []Count {
	return head(countBy(rows, func(p *model.Prospect) string { return p.Country }), n)
}

// RoleDistribution counts non-empty display roles, top n.
func RoleDistribution(rows []model.Prospect, n int) []Count {
	return head(countBy(rows, func(p *model.Prospect) string { return p.RoleNorm }), n)
}

// CompanySummary counts prospects, distinct countries and distinct regions
// per company, largest first.
func CompanySummary(rows []model.Prospect) []CompanyRow {
	type agg struct {
		prospects int
		countries map[string]bool
		regions   map[model.Region]bool
	}
	byCompany := map[string]*agg{}
	for i := range rows {
		p := &rows[i]
		a, ok := byCompany[p.Company]
		if !ok {
			a = &agg{countries: map[string]bool{}, regions: map[model.Region]bool{}}
			byCompany[p.Company] = a
		}
		a.prospects++
		a.countries[p.Country] = true
		a.regions[p.Region] = true
	}

	out := make([]CompanyRow, 0, len(byCompany))
	for name, a := range byCompany {
		out = append(out, CompanyRow{
			Company:   name,
			Prospects: a.prospects,
			Countries: len(a.countries),
			Regions:   len(a.regions),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prospects != out[j].Prospects {
			return out[i].Prospects > out[j].Prospects
		}
		return out[i].Company < out[j].Company
	})
	return out
}

// Funnel counts prospects per status: the fixed stages first (zero when
// absent), then other statuses in order of first appearance. Empty statuses
// count as "(blank)".
func Funnel(rows []model.Prospect) []Count {
	counts := map[string]int{}
	var extra []string
	known := map[string]bool{}
	for _, s := range FunnelStages {
		known[s] = true
	}
	for i := range rows {
		s := rows[i].Status
		if s == "" {
			s = filter.Blank
		}
		if !known[s] {
			known[s] = true
			extra = append(extra, s)
		}
		counts[s]++
	}

	out := make([]Count, 0, len(FunnelStages)+len(extra))
	for _, s := range append(append([]string(nil), FunnelStages...), extra...) {
		out = append(out, Count{Label: s, Prospects: counts[s]})
	}
	return out
}

// Contacts returns rows whose name or company contains query (any case),
// highest score first, at most limit rows (all when limit <= 0).
func Contacts(rows []model.Prospect, query string, limit int) []model.Prospect {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Prospect
	for i := range rows {
		p := &rows[i]
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Company), q) {
			continue
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return head(out, limit)
}
