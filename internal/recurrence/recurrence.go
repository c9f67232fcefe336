package recurrence

import (
	"time"

	"github.com/user/ticklist/internal/models"
)

// NextDue maps a due timestamp and repeat rule to the next occurrence, or nil
// when the rule produces none. The instant is shifted by whole days via
// calendar arithmetic, so month and year boundaries roll over correctly and
// the time of day is preserved. No timezone conversion is performed.
func NextDue(current time.Time, rule *models.RepeatRule) *time.Time {
	if rule == nil {
		return nil
	}

	var days int
	switch rule.Kind {
	case models.RepeatDaily:
		days = 1
	case models.RepeatWeekly:
		days = 7
	case models.RepeatCustom:
		// A non-positive interval is treated as no recurrence.
		if rule.IntervalDays <= 0 {
			return nil
		}
		days = rule.IntervalDays
	default:
		return nil
	}

	next := current.AddDate(0, 0, days)
	return &next
}
