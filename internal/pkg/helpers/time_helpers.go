package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

// SpaceDateTimeLayout is the non-ISO due date format clients may send.
const SpaceDateTimeLayout = "2006-01-02 15:04:05"

// isoLayouts are tried in order for inputs containing a 'T'.
// Inputs without a zone offset are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDueDate accepts ISO-8601 (anything containing 'T') or "YYYY-MM-DD HH:MM:SS".
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", apperrors.ErrInvalidDueDate)
	}

	if strings.Contains(value, "T") {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q is not ISO-8601", apperrors.ErrInvalidDueDate, value)
	}

	t, err := time.Parse(SpaceDateTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s", apperrors.ErrInvalidDueDate, value, SpaceDateTimeLayout)
	}
	return t.UTC(), nil
}
