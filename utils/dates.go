package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// ParseDate accepts RFC3339 timestamps and the looser layouts jinzhu/now understands (2026-03-01, 2026-3-1 10:00)
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := now.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}
