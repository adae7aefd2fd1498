package export

import (
	"sort"
	"strings"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// EmailList joins the sorted distinct emails that contain "@".
func EmailList(rows []model.Prospect) string {
	return joinUnique(rows, func(p *model.Prospect) string {
		if strings.Contains(p.Email, "@") {
			return p.Email
		}
		return ""
	})
}

// PhoneList joins the sorted distinct non-empty phone numbers.
func PhoneList(rows []model.Prospect) string {
	return joinUnique(rows, func(p *model.Prospect) string { return p.Phone })
}

func joinUnique(rows []model.Prospect, value func(p *model.Prospect) string) string {
	seen := map[string]bool{}
	var out []string
	for i := range rows {
		v := value(&rows[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
