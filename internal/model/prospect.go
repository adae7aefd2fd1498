package model

import "time"

// DateLayout is the calendar date format used for display and export.
const DateLayout = "2006-01-02"

// Region groups countries into the sales territories used by filters and charts.
type Region string

const (
	RegionMENA  Region = "MENA"
	RegionAPAC  Region = "APAC"
	RegionEMEA  Region = "EMEA"
	RegionAMER  Region = "AMER"
	RegionOther Region = "Other"
)

// Regions lists every region value.
var Regions = []Region{RegionMENA, RegionAPAC, RegionEMEA, RegionAMER, RegionOther}

// Present-in-CRM tri-state values.
const (
	CRMYes     = "Yes"
	CRMNo      = "No"
	CRMUnknown = ""
)

// RawTable is a loaded sheet: source column names and every cell as text.
// Rows may be shorter than Columns; missing cells read as empty.
type RawTable struct {
	Source  string     `json:"source"`
	Sheet   string     `json:"sheet,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Cell returns the value at row i, column j, or "" when the row is short.
func (t *RawTable) Cell(i, j int) string {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// ColumnIndex returns the index of the named column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Prospect is one normalized row of the prospect list.
type Prospect struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Role          string `json:"role"`
	Country       string `json:"country"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	Owner         string `json:"owner"`
	LastContacted string `json:"last_contacted"`
	PresentInCRM  string `json:"present_in_crm"`
	Notes         string `json:"notes"`

	// Derived by normalization.
	Region           Region     `json:"region"`
	EmailDomain      string     `json:"email_domain"`
	IsGenericDomain  bool       `json:"is_generic_domain"`
	RoleNorm         string     `json:"role_norm"`
	LastContactedAt  *time.Time `json:"last_contacted_at,omitempty"`
	DaysSinceContact *int       `json:"days_since_contact,omitempty"`

	// Derived by scoring, on the filtered view.
	Score        float64    `json:"score"`
	NextFollowUp *time.Time `json:"next_follow_up,omitempty"`
	Overdue      bool       `json:"overdue"`
}

// Value returns the text held for a canonical field.
func (p *Prospect) Value(f Field) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldCompany:
		return p.Company
	case FieldRole:
		return p.Role
	case FieldCountry:
		return p.Country
	case FieldStatus:
		return p.Status
	case FieldPriority:
		return p.Priority
	case FieldOwner:
		return p.Owner
	case FieldLastContacted:
		return p.LastContacted
	case FieldPresentInCRM:
		return p.PresentInCRM
	case FieldNotes:
		return p.Notes
	}
	return ""
}

// SetValue stores text for a canonical field.
func (p *Prospect) SetValue(f Field, v string) {
	switch f {
	case FieldName:
		p.Name = v
	case FieldEmail:
		p.Email = v
	case FieldPhone:
		p.Phone = v
	case FieldCompany:
		p.Company = v
	case FieldRole:
		p.Role = v
	case FieldCountry:
		p.Country = v
	case FieldStatus:
		p.Status = v
	case FieldPriority:
		p.Priority = v
	case FieldOwner:
		p.Owner = v
	case FieldLastContacted:
		p.LastContacted = v
	case FieldPresentInCRM:
		p.PresentInCRM = v
	case FieldNotes:
		p.Notes = v
	}
}

// FormatDate renders an optional date, "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
