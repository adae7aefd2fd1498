// Package normalize turns mapped prospect rows into their canonical form and
// derives region, email domain, role display text, contact dates and CRM state.
// Every function here is total: bad cell values degrade to empty defaults.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// countryAliases maps exact source spellings to canonical country names.
var countryAliases = map[string]string{
	"UAE":       "United Arab Emirates",
	"Abu Dhabi": "United Arab Emirates",
	"KSA":       "Saudi Arabia",
	"USA":       "United States",
	"US":        "United States",
	"UK":        "United Kingdom",
	"Korea":     "South Korea",
}

// regions maps canonical country names to sales regions.
var regions = map[string]model.Region{
	"United Arab Emirates": model.RegionMENA,
	"Qatar":                model.RegionMENA,
	"Bahrain":              model.RegionMENA,
	"Kuwait":               model.RegionMENA,
	"Saudi Arabia":         model.RegionMENA,
	"Lebanon":              model.RegionMENA,

	"India":       model.RegionAPAC,
	"Japan":       model.RegionAPAC,
	"Singapore":   model.RegionAPAC,
	"Indonesia":   model.RegionAPAC,
	"Malaysia":    model.RegionAPAC,
	"Thailand":    model.RegionAPAC,
	"Philippines": model.RegionAPAC,
	"China":       model.RegionAPAC,
	"South Korea": model.RegionAPAC,
	"Australia":   model.RegionAPAC,

	"Germany":        model.RegionEMEA,
	"Italy":          model.RegionEMEA,
	"United Kingdom": model.RegionEMEA,
	"France":         model.RegionEMEA,
	"Spain":          model.RegionEMEA,
	"Netherlands":    model.RegionEMEA,

	"United States": model.RegionAMER,
	"Canada":        model.RegionAMER,
	"Mexico":        model.RegionAMER,
	"Brazil":        model.RegionAMER,
}

// genericDomains are consumer webmail providers.
var genericDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"icloud.com":  true,
	"proton.me":   true,
	"aol.com":     true,
}

var (
	crmYes = map[string]bool{
		"1": true, "true": true, "yes": true, "y": true, "present": true,
		"in crm": true, "crm": true, "✓": true, "check": true, "checked": true, "x": true,
	}
	crmNo = map[string]bool{
		"0": true, "false": true, "no": true, "n": true, "absent": true,
		"not in crm": true, "-": true, "": true,
	}
)

var domainRe = regexp.MustCompile(`@([^>\s,;]+)`)

// Country resolves an exact alias to its canonical country name.
func Country(s string) string {
	if c, ok := countryAliases[s]; ok {
		return c
	}
	return s
}

// RegionOf returns the sales region of a canonical country name.
func RegionOf(country string) model.Region {
	if r, ok := regions[country]; ok {
		return r
	}
	return model.RegionOther
}

// EmailDomain returns the lowercased text after the first "@" up to the next
// whitespace, comma, semicolon or ">"; "" when there is none.
func EmailDomain(email string) string {
	m := domainRe.FindStringSubmatch(email)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// IsGenericDomain reports whether domain belongs to a consumer webmail provider.
func IsGenericDomain(domain string) bool {
	return genericDomains[domain]
}

// TitleRole title-cases a role for display.
func TitleRole(role string) string {
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.Und).String(role)
}

// CRMStatus maps the many spellings of "present in CRM" onto Yes, No, or ""
// when the value is not recognized.
func CRMStatus(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case crmYes[v]:
		return model.CRMYes
	case crmNo[v]:
		return model.CRMNo
	}
	return model.CRMUnknown
}

// Normalize returns the canonical form of rows; the input is left untouched.
// today anchors DaysSinceContact and only its calendar date is used.
func Normalize(rows []model.Prospect, today time.Time) []model.Prospect {
	day := Day(today)
	out := make([]model.Prospect, len(rows))
	for i, p := range rows {
		out[i] = normalizeOne(p, day)
	}
	return out
}

func normalizeOne(p model.Prospect, today time.Time) model.Prospect {
	for _, f := range model.Fields {
		p.SetValue(f, strings.TrimSpace(p.Value(f)))
	}

	p.Country = Country(p.Country)
	p.Region = RegionOf(p.Country)
	p.EmailDomain = EmailDomain(p.Email)
	p.IsGenericDomain = IsGenericDomain(p.EmailDomain)
	p.RoleNorm = TitleRole(p.Role)
	p.PresentInCRM = CRMStatus(p.PresentInCRM)

	p.LastContactedAt = nil
	p.DaysSinceContact = nil
	if t, ok := ParseDate(p.LastContacted); ok {
		d := DaysSince(t, today)
		p.LastContactedAt = &t
		p.DaysSinceContact = &d
	}
	return p
}
