package service

import (
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ParseSlot validates a calendar date (YYYY-MM-DD) and a 24-hour time
// (HH:MM) and returns them in canonical form.
func ParseSlot(date, clock string) (model.Slot, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return model.Slot{}, ErrInvalidDate
	}
	c, err := time.Parse(model.TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return model.Slot{}, ErrInvalidTime
	}
	return model.Slot{Date: d.Format(model.DateLayout), Time: c.Format(model.TimeLayout)}, nil
}
