// Package scorer computes lead scores and follow-up schedules for prospects.
package scorer

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/config"
)

// Score components.
const (
	CEOBonus        = 2.0
	NonGenericBonus = 1.0

	// RecencyWindowDays is the contact age at which the recency adjustment
	// reaches -1; unknown contact dates count as this old.
	RecencyWindowDays = 60
)

// DefaultCadence returns the default follow-up interval per priority tier.
func DefaultCadence() config.CadenceConfig {
	return config.CadenceConfig{
		HighDays: 14,
		MedDays:  30,
		LowDays:  45,
	}
}

// ValidateCadence checks each interval against its allowed bounds.
func ValidateCadence(c config.CadenceConfig) error {
	if err := c.Validate(); err != nil {
		return eris.Wrap(err, "scorer: cadence validation failed")
	}
	return nil
}

// priorityTier folds the accepted spellings of a priority to high, med or low.
// It returns "" for blank or unrecognized values.
func priorityTier(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return "high"
	case "med", "medium":
		return "med"
	case "low":
		return "low"
	}
	return ""
}

// PriorityPoints returns 3, 2, 1 for High, Med/Medium, Low and 0 otherwise.
func PriorityPoints(priority string) float64 {
	switch priorityTier(priority) {
	case "high":
		return 3
	case "med":
		return 2
	case "low":
		return 1
	}
	return 0
}

// CadenceDays returns the follow-up interval for a priority. Blank or
// unrecognized priorities follow the Low cadence.
func CadenceDays(c config.CadenceConfig, priority string) int {
	switch priorityTier(priority) {
	case "high":
		return c.HighDays
	case "med":
		return c.MedDays
	}
	return c.LowDays
}
