package schedule

import (
	"fmt"
	"math"
	"time"
)

// Midnight strips the time-of-day so day arithmetic is unaffected by
// timezone-induced fractional-day drift.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateFromOffset returns ref minus offsetDays calendar days. Offset 0 means
// due on the reference day itself.
func DateFromOffset(ref time.Time, offsetDays int) time.Time {
	return Midnight(ref).AddDate(0, 0, -offsetDays)
}

// OffsetFromDate converts a concrete date back into a day-offset for editing.
// A target on or after the reference date clamps to 0, never negative.
func OffsetFromDate(ref, target time.Time) int {
	diff := Midnight(ref).Sub(Midnight(target))
	days := int(math.Round(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// ValidateOffsets checks a template task's offset pair. The critical offset
// is mandatory and non-negative; the alert offset is optional ("no alert")
// but when set it must not be smaller than the critical offset, so the alert
// date never lands after the due date.
func ValidateOffsets(critical int, alert *int) error {
	if critical < 0 {
		return fmt.Errorf("critical offset must be zero or positive, got %d", critical)
	}
	if alert != nil {
		if *alert < 0 {
			return fmt.Errorf("alert offset must be zero or positive, got %d", *alert)
		}
		if *alert < critical {
			return fmt.Errorf("alert offset (%d) must be greater than or equal to the critical offset (%d)", *alert, critical)
		}
	}
	return nil
}
