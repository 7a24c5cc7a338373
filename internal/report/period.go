package report

import (
	"fmt"
	"math"
	"time"
)

// PeriodStart is the lower bound for time entries: the 28th of the month
// before now's month, at midnight.
func PeriodStart(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := firstOfMonth.AddDate(0, 0, -1)
	return time.Date(prev.Year(), prev.Month(), 28, 0, 0, 0, 0, now.Location())
}

// CurrentMonthAnchor is the 15th of now's month.
func CurrentMonthAnchor(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, now.Location())
}

// NextMonthAnchor is four weeks after CurrentMonthAnchor.
func NextMonthAnchor(now time.Time) time.Time {
	return CurrentMonthAnchor(now).AddDate(0, 0, 28)
}

// FormatHours renders decimal hours as H:MM. The fraction is rounded to
// whole minutes, half to even; 60 minutes carry into the hour.
func FormatHours(hours float64) string {
	h := int(hours)
	minutes := int(math.RoundToEven((hours - float64(h)) * 60))
	if minutes == 60 {
		h++
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", h, minutes)
}
