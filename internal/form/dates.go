package form

import (
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	isoLayout  = "2006-01-02T00:00:00Z"
)

// ToISODate turns a form date (yyyy-mm-dd, or any RFC 3339 timestamp) into the
// midnight-UTC timestamp the services expect. Unparseable input is returned
// unchanged so the upstream reports it.
func ToISODate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || len(s) < len(dateLayout) {
		return s
	}
	d, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return s
	}
	return d.Format(isoLayout)
}

// ToInputDate keeps the yyyy-mm-dd part of an ISO date-time for prefill.
func ToInputDate(s string) string {
	if len(s) >= len(dateLayout) {
		return s[:len(dateLayout)]
	}
	return s
}
