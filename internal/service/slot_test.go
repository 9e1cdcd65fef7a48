package service

import (
	"errors"
	"testing"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestParseSlot(t *testing.T) {
	cases := []struct {
		date, clock string
		want        model.Slot
		err         error
	}{
		{"2025-07-04", "18:00", model.Slot{Date: "2025-07-04", Time: "18:00"}, nil},
		{" 2025-07-04 ", "9:05", model.Slot{Date: "2025-07-04", Time: "09:05"}, nil},
		{"2025-7-4", "18:00", model.Slot{}, ErrInvalidDate},
		{"", "18:00", model.Slot{}, ErrInvalidDate},
		{"2025-07-04", "18:00:00", model.Slot{}, ErrInvalidTime},
		{"2025-07-04", "24:00", model.Slot{}, ErrInvalidTime},
	}
	for _, tc := range cases {
		got, err := ParseSlot(tc.date, tc.clock)
		if !errors.Is(err, tc.err) || got != tc.want {
			t.Errorf("ParseSlot(%q, %q) = %v, %v; want %v, %v", tc.date, tc.clock, got, err, tc.want, tc.err)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	err := ErrTablesTaken.withDetail("%v", []uint64{3})
	if err.Error() != "tables already booked for this slot: [3]" {
		t.Fatalf("message = %q", err.Error())
	}
	if !errors.Is(err, ErrTablesTaken) || !errors.Is(err, ErrConflict) {
		t.Fatal("detail error lost its kinds")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("conflict matched not found")
	}
	if !errors.Is(ErrInvalidStatus, ErrValidation) || !errors.Is(ErrInvalidStatus, ErrInvalidTransition) {
		t.Fatal("ErrInvalidStatus must match both kinds")
	}
}
