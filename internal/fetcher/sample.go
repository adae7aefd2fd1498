package fetcher

import "github.com/brunogennarelli2-del/prospectelettrica/internal/model"

// SampleTable returns the built-in demo prospect list.
func SampleTable() *model.RawTable {
	return &model.RawTable{
		Source: "sample",
		Columns: []string{
			"Name", "Email", "Phone", "Company", "Role", "Country", "Status",
			"Priority", "Owner", "LastContacted", "Present in CRM", "Notes",
		},
		Rows: [][]string{
			{"Aisha Tan", "a.tan@example.com", "+65 6123 4567", "SolarFuture", "CEO", "Singapore", "New", "High", "Bruno", "", "No", ""},
			{"Lucas Meyer", "lucas@greenwatt.de", "+49 30 123456", "GreenWatt", "Sustainability Manager", "Germany", "Contacted", "Med", "Bruno", "2025-08-24", "Yes", "Intro call done"},
			{"Priya Shah", "priya@evgrid.in", "+91 98 7654 3210", "EVGrid", "Head of EV", "India", "Replied", "High", "Bruno", "2025-09-18", "Yes", "Strong EV fit"},
			{"Elena Rossi", "elena@eco-italia.it", "+39 06 1234 5678", "EcoItalia", "VP Sustainability", "Italy", "New", "Low", "Ana", "", "No", "Specializes in solar"},
			{"Kenji Sato", "kenji@nippon-sustain.jp", "+81 3-1234-5678", "Nippon Sustain", "Director Sustainability", "Japan", "New", "Med", "Ana", "2025-09-01", "No", "Battery projects"},
			{"John Smith", "john@us-ev.org", "+1 415-555-0100", "EV Alliance", "CEO", "United States", "Qualified", "High", "Luis", "2025-09-10", "Yes", "Decision maker"},
			{"Sara Lee", "", "+61 3 9000 1111", "BlueCharge", "Partnerships Lead", "Australia", "New", "Low", "Ana", "", "No", "Gmail domain"},
			{"Juan Perez", "juan@solaris.mx", "+52 55 1234 5678", "Solaris", "Country Manager", "Mexico", "Contacted", "Med", "Luis", "2025-09-05", "No", "LATAM entry"},
			{"Fatima Noor", "fatima@qatarleaders.com", "+974 5555 1234", "Qatar Green Leaders", "Director", "Qatar", "Replied", "High", "Bruno", "2025-09-17", "Yes", "Gov relationships"},
			{"Li Wei", "", "+86 10 8888 0000", "China EV", "CTO", "China", "New", "Low", "Wei", "", "No", "Hardware heavy"},
			{"Amira Hassan", "amira@mena-green.ae", "+971 50 555 1234", "MENA Green", "CEO", "United Arab Emirates", "Meeting", "High", "Nadia", "2025-09-20", "Yes", "ME partnerships"},
			{"James Park", "j.park@k-ev.co.kr", "+82 2-555-0000", "K-EV", "Head of Strategy", "South Korea", "Qualified", "Med", "Min", "2025-09-12", "No", "Korea rollout"},
		},
	}
}
