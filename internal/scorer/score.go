package scorer

import (
	"math"
	"strings"
	"time"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/config"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/normalize"
)

// IsCEO reports whether role mentions CEO in any letter case.
func IsCEO(role string) bool {
	return strings.Contains(strings.ToLower(role), "ceo")
}

// RecencyAdjustment maps days since last contact onto [-1, 0]. Contact today
// gives 0, contact 60 or more days ago (or never) gives -1. Future dates
// clamp to 0.
func RecencyAdjustment(days *int) float64 {
	d := float64(RecencyWindowDays)
	if days != nil {
		d = float64(*days)
	}
	adj := -d / RecencyWindowDays
	return math.Max(-1, math.Min(0, adj))
}

// Score returns priority points plus CEO and company-domain bonuses plus the
// recency adjustment, rounded to two decimals.
func Score(p model.Prospect) float64 {
	s := PriorityPoints(p.Priority)
	if IsCEO(p.Role) {
		s += CEOBonus
	}
	if !p.IsGenericDomain {
		s += NonGenericBonus
	}
	s += RecencyAdjustment(p.DaysSinceContact)
	return round2(s)
}

// Schedule returns the next follow-up date and whether it has passed. Without
// a last-contact date there is no follow-up and nothing is overdue.
func Schedule(p model.Prospect, c config.CadenceConfig, today time.Time) (*time.Time, bool) {
	if p.LastContactedAt == nil {
		return nil, false
	}
	next := normalize.Day(*p.LastContactedAt).AddDate(0, 0, CadenceDays(c, p.Priority))
	return &next, normalize.Day(today).After(next)
}

// Apply scores and schedules every row and returns the result as a new slice.
func Apply(rows []model.Prospect, c config.CadenceConfig, today time.Time) []model.Prospect {
	out := make([]model.Prospect, len(rows))
	for i, p := range rows {
		p.Score = Score(p)
		p.NextFollowUp, p.Overdue = Schedule(p, c, today)
		out[i] = p
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
