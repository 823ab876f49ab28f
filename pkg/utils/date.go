package utils

import "time"

const dateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// DateOnly returns the YYYY-MM-DD prefix of an ISO8601 timestamp.
func DateOnly(isoTime string) string {
	if len(isoTime) < 10 {
		return ""
	}
	return isoTime[:10]
}

// UTCNowISO returns the current UTC time as an ISO8601 string with
// millisecond precision. Watchlist version tokens rely on this being
// fine enough to distinguish back-to-back mutations.
func UTCNowISO() string {
	return time.Now().UTC().Truncate(time.Millisecond).Format("2006-01-02T15:04:05.000Z07:00")
}
