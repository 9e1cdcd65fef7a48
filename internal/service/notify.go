package service

import (
	"context"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Change kinds reported to notifiers.
const (
	ChangeCreated       = "reservation.created"
	ChangeStatusChanged = "reservation.status_changed"
	ChangeDeleted       = "reservation.deleted"
	// ChangeTables is reported when the table catalogue changes.  Only
	// Kind is set.
	ChangeTables = "tables.changed"
)

// Change describes a committed reservation write.
type Change struct {
	Kind           string
	ReservationID  uint64
	UserID         *uint64
	Slot           model.Slot
	TableIDs       []uint64
	Status         model.Status
	PreviousStatus model.Status // empty for ChangeCreated
}

// Notifier is told about every committed reservation change.  It runs
// after commit and cannot fail the operation; implementations log their
// own errors.
type Notifier interface {
	ReservationChanged(ctx context.Context, c Change)
}

// Notifiers fans a change out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) ReservationChanged(ctx context.Context, c Change) {
	for _, n := range ns {
		if n != nil {
			n.ReservationChanged(ctx, c)
		}
	}
}

func notify(ctx context.Context, n Notifier, c Change) {
	if n != nil {
		n.ReservationChanged(ctx, c)
	}
}
