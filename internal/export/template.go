// Package export renders the filtered prospect view as CSV or XLSX using a
// CRM import template.
package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// Template names a target column layout.
type Template string

const (
	TemplateNone       Template = "None"
	TemplateSalesforce Template = "Salesforce"
	TemplateHubSpot    Template = "HubSpot"
)

// Templates lists every template in menu order.
var Templates = []Template{TemplateNone, TemplateSalesforce, TemplateHubSpot}

// ParseTemplate matches a template name ignoring case. Empty means None.
func ParseTemplate(s string) (Template, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TemplateNone, nil
	}
	for _, t := range Templates {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", eris.Errorf("export: unknown template %q (want None, Salesforce or HubSpot)", s)
}

// column is one output column and how to read it from a prospect.
type column struct {
	header string
	value  func(p *model.Prospect) string
}

func text(f model.Field) func(p *model.Prospect) string {
	return func(p *model.Prospect) string { return p.Value(f) }
}

func nextFollowUp(p *model.Prospect) string { return model.FormatDate(p.NextFollowUp) }

var noneColumns = []column{
	{"Name", text(model.FieldName)},
	{"Email", text(model.FieldEmail)},
	{"Phone", text(model.FieldPhone)},
	{"Company", text(model.FieldCompany)},
	{"Role", text(model.FieldRole)},
	{"Country", text(model.FieldCountry)},
	{"Status", text(model.FieldStatus)},
	{"Priority", text(model.FieldPriority)},
	{"Owner", text(model.FieldOwner)},
	{"LastContacted", text(model.FieldLastContacted)},
	{"PresentInCRM", text(model.FieldPresentInCRM)},
	{"Notes", text(model.FieldNotes)},
	{"Region", func(p *model.Prospect) string { return string(p.Region) }},
	{"EmailDomain", func(p *model.Prospect) string { return p.EmailDomain }},
	{"IsGenericDomain", func(p *model.Prospect) string { return strconv.FormatBool(p.IsGenericDomain) }},
	{"RoleNorm", func(p *model.Prospect) string { return p.RoleNorm }},
	{"DaysSinceContact", func(p *model.Prospect) string {
		if p.DaysSinceContact == nil {
			return ""
		}
		return strconv.Itoa(*p.DaysSinceContact)
	}},
	{"Score", func(p *model.Prospect) string { return strconv.FormatFloat(p.Score, 'f', 2, 64) }},
	{"NextFollowUp", nextFollowUp},
	{"Overdue", func(p *model.Prospect) string { return strconv.FormatBool(p.Overdue) }},
}

var salesforceColumns = []column{
	{"FullName", text(model.FieldName)},
	{"Title", text(model.FieldRole)},
	{"Email", text(model.FieldEmail)},
	{"Phone", text(model.FieldPhone)},
	{"AccountName", text(model.FieldCompany)},
	{"Country", text(model.FieldCountry)},
	{"LeadStatus", text(model.FieldStatus)},
	{"Rating", text(model.FieldPriority)},
	{"Owner", text(model.FieldOwner)},
	{"NextFollowUp", nextFollowUp},
	{"PresentInCRM", text(model.FieldPresentInCRM)},
	{"Description", text(model.FieldNotes)},
}

var hubspotColumns = []column{
	{"firstname lastname", text(model.FieldName)},
	{"jobtitle", text(model.FieldRole)},
	{"email", text(model.FieldEmail)},
	{"phone", text(model.FieldPhone)},
	{"company", text(model.FieldCompany)},
	{"country", text(model.FieldCountry)},
	{"lifecyclestage", text(model.FieldStatus)},
	{"hs_lead_rating", text(model.FieldPriority)},
	{"hubspot_owner_id", text(model.FieldOwner)},
	{"NextFollowUp", nextFollowUp},
	{"present_in_crm", text(model.FieldPresentInCRM)},
	{"notes", text(model.FieldNotes)},
}

func (t Template) columns() []column {
	switch t {
	case TemplateSalesforce:
		return salesforceColumns
	case TemplateHubSpot:
		return hubspotColumns
	}
	return noneColumns
}

// Header returns the column names the template emits.
func (t Template) Header() []string {
	cols := t.columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.header
	}
	return out
}

// Table is a rendered export: a header row and one record per prospect.
type Table struct {
	Header  []string   `json:"header"`
	Records [][]string `json:"records"`
}

// Build renders rows with the template's columns, in row order.
func Build(rows []model.Prospect, t Template) Table {
	cols := t.columns()
	tbl := Table{Header: t.Header(), Records: make([][]string, len(rows))}
	for i := range rows {
		rec := make([]string, len(cols))
		for j, c := range cols {
			rec[j] = c.value(&rows[i])
		}
		tbl.Records[i] = rec
	}
	return tbl
}
