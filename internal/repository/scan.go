package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// dateCol scans a DATE column into its YYYY-MM-DD form.  MySQL with
// parseTime=true and SQLite both hand DATE values back as time.Time; raw
// strings are accepted as well.
type dateCol string

func (d *dateCol) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = dateCol(v.Format(model.DateLayout))
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}
	return fmt.Errorf("unsupported DATE value %T", src)
}

func (d *dateCol) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		if t, err := time.Parse(model.DateLayout, s[:10]); err == nil {
			*d = dateCol(t.Format(model.DateLayout))
			return nil
		}
	}
	return fmt.Errorf("invalid DATE value %q", s)
}

// clockCol scans a TIME column ("19:00:00" or "19:00") into HH:MM.
type clockCol string

func (c *clockCol) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c = clockCol(v.Format(model.TimeLayout))
		return nil
	case []byte:
		return c.parse(string(v))
	case string:
		return c.parse(v)
	}
	return fmt.Errorf("unsupported TIME value %T", src)
}

func (c *clockCol) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", model.TimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			*c = clockCol(t.Format(model.TimeLayout))
			return nil
		}
	}
	return fmt.Errorf("invalid TIME value %q", s)
}
