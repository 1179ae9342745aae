package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout used to display due dates.
const DateLayout = "2006-01-02 15:04"

var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate reads user input in the local time zone. Date-only input means midnight.
func ParseDate(raw string) (time.Time, error) {
	return ParseDateIn(raw, time.Local)
}

func ParseDateIn(raw string, loc *time.Location) (time.Time, error) {
	text := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, text, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unable to parse date %q, expected yyyy-MM-dd HH:mm or yyyy-MM-dd", ErrValidation, raw)
}
