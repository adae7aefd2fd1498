package model

// Field identifies one of the canonical prospect columns a source column can
// be mapped onto.
type Field string

const (
	FieldName          Field = "name"
	FieldEmail         Field = "email"
	FieldPhone         Field = "phone"
	FieldCompany       Field = "company"
	FieldRole          Field = "role"
	FieldCountry       Field = "country"
	FieldStatus        Field = "status"
	FieldPriority      Field = "priority"
	FieldOwner         Field = "owner"
	FieldLastContacted Field = "last_contacted"
	FieldPresentInCRM  Field = "present_in_crm"
	FieldNotes         Field = "notes"
)

// Fields lists the canonical fields in display order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldCompany,
	FieldRole,
	FieldCountry,
	FieldStatus,
	FieldPriority,
	FieldOwner,
	FieldLastContacted,
	FieldPresentInCRM,
	FieldNotes,
}

var fieldLabels = map[Field]string{
	FieldName:          "Name",
	FieldEmail:         "Email",
	FieldPhone:         "Phone",
	FieldCompany:       "Company",
	FieldRole:          "Role",
	FieldCountry:       "Country",
	FieldStatus:        "Status",
	FieldPriority:      "Priority",
	FieldOwner:         "Owner",
	FieldLastContacted: "Last Contacted",
	FieldPresentInCRM:  "Present in CRM",
	FieldNotes:         "Notes",
}

// Label returns the human readable name of the field.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Required reports whether a prospect table cannot be built without a source
// column for this field.
func (f Field) Required() bool {
	switch f {
	case FieldName, FieldCompany, FieldCountry:
		return true
	}
	return false
}

// Valid reports whether f is one of the canonical fields.
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// ParseField resolves a field key or label (case-insensitive, spaces and
// underscores interchangeable) to a canonical field.
func ParseField(s string) (Field, bool) {
	key := normalizeKey(s)
	for _, f := range Fields {
		if normalizeKey(string(f)) == key || normalizeKey(f.Label()) == key {
			return f, true
		}
	}
	return "", false
}

func normalizeKey(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == ' ' || r == '_' || r == '-':
			continue
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
