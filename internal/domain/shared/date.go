package shared

import "time"

// DateLayout is the calendar-date format the backend uses for creation,
// request and approval dates
const DateLayout = "2006-01-02"

// FormatDate renders t as a backend calendar date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
