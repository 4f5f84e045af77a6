package domain

import "time"

// Display layouts for stamped dates.
const (
	DateLayout   = "Jan 2, 2006"
	PeriodLayout = "Jan 2006"
)

// FormatDate renders t as a display date, e.g. "Mar 4, 2025".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatPeriod renders t as a RAG period, e.g. "Mar 2025".
func FormatPeriod(t time.Time) string {
	return t.Format(PeriodLayout)
}
