package perfecthr

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var errUnparsable = errors.New("no ISO-8601 layout matched")

// time.Parse accepts a one-digit hour for "15", so the digit grouping is
// checked up front. Calendar ranges are left to the layouts.
var (
	extendedForm = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:[T ]\d{2}(?::\d{2}(?::\d{2}(?:\.\d{1,9})?)?)?(?:Z|[+-]\d{2}(?::?\d{2})?)?)?$`)
	basicForm    = regexp.MustCompile(`^\d{8}(?:T\d{2}(?:\d{2}(?:\d{2}(?:\.\d{1,9})?)?)?(?:Z|[+-]\d{2}(?::?\d{2})?)?)?$`)
)

// timestampLayouts lists the accepted ISO-8601 forms: a date, optionally
// followed by a time of hour, minute or second precision (with optional
// fraction) and an optional numeric UTC offset. Extended forms take "T" or a
// space as separator; basic forms (20250101T083000) take "T" only.
var timestampLayouts = buildTimestampLayouts()

func buildTimestampLayouts() []string {
	offsets := []string{"", "-07:00", "-0700", "-07"}
	forms := []struct {
		date  string
		seps  []string
		times []string
	}{
		{"2006-01-02", []string{"T", " "}, []string{"15", "15:04", "15:04:05", "15:04:05.999999999"}},
		{"20060102", []string{"T"}, []string{"15", "1504", "150405", "150405.999999999"}},
	}

	var layouts []string
	for _, f := range forms {
		layouts = append(layouts, f.date)
		for _, sep := range f.seps {
			for _, tm := range f.times {
				for _, off := range offsets {
					layouts = append(layouts, f.date+sep+tm+off)
				}
			}
		}
	}
	return layouts
}

// ValidateTimestamp checks that value is an ISO-8601 date or date-time.
// A literal "Z" is read as the "+00:00" offset.
func ValidateTimestamp(value string) error {
	if _, err := parseTimestamp(value); err != nil {
		return err
	}
	return nil
}

// parseTimestamp parses value with the rules of ValidateTimestamp. Values
// without an offset are returned in UTC.
func parseTimestamp(value string) (time.Time, error) {
	if !extendedForm.MatchString(value) && !basicForm.MatchString(value) {
		return time.Time{}, validationError(value, errUnparsable)
	}
	s := strings.Replace(value, "Z", "+00:00", 1)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationError(value, errUnparsable)
}
