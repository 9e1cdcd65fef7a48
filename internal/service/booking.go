package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// BookingRequest is the input of Booking.Create.  UserID is nil for
// anonymous bookings.
type BookingRequest struct {
	Name     string
	Contact  string
	Date     string
	Time     string
	TableIDs []uint64
	UserID   *uint64
}

// Booking creates reservations.  The reservation row and its table
// associations are written in one unit of work.
//
// By default availability is advisory: the caller is expected to have
// shown table status beforehand and two concurrent bookings of the same
// table and slot may both succeed.  With EnforceAvailability the
// requested table rows are locked and occupancy is re-derived inside the
// transaction, and overlapping bookings fail with ErrTablesTaken.
type Booking struct {
	store    *repository.Store
	notifier Notifier

	EnforceAvailability bool
}

// NewBooking returns a Booking over store.  notifier may be nil.
func NewBooking(store *repository.Store, notifier Notifier, enforceAvailability bool) *Booking {
	return &Booking{store: store, notifier: notifier, EnforceAvailability: enforceAvailability}
}

// Create validates req and inserts a Pending reservation with one
// association per distinct table id.  It returns the new reservation id.
func (b *Booking) Create(ctx context.Context, req BookingRequest) (uint64, error) {
	name := strings.TrimSpace(req.Name)
	contact := strings.TrimSpace(req.Contact)
	if name == "" {
		return 0, missingField("name")
	}
	if contact == "" {
		return 0, missingField("contact")
	}
	tableIDs := uniqueIDs(req.TableIDs)
	if len(tableIDs) == 0 {
		return 0, ErrNoTables
	}
	slot, err := ParseSlot(req.Date, req.Time)
	if err != nil {
		return 0, err
	}

	rec := &repository.ReservationRecord{
		CustomerName: name,
		ContactInfo:  contact,
		Slot:         slot,
		Status:       model.StatusPending,
		UserID:       req.UserID,
	}
	err = b.store.Atomic(ctx, func(tx *repository.Tx) error {
		if req.UserID != nil {
			ok, err := tx.Users.Exists(ctx, *req.UserID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrUnknownUser
			}
		}
		found, err := tx.Tables.LockExisting(ctx, tableIDs)
		if err != nil {
			return err
		}
		if missing := absent(tableIDs, found); len(missing) > 0 {
			return ErrUnknownTable.withDetail("%v", missing)
		}
		if b.EnforceAvailability {
			booked, err := bookedSet(ctx, tx.Reservations, slot)
			if err != nil {
				return err
			}
			if clash := present(tableIDs, booked); len(clash) > 0 {
				return ErrTablesTaken.withDetail("%v", clash)
			}
		}
		if err := tx.Reservations.Create(ctx, rec); err != nil {
			return err
		}
		for _, id := range tableIDs {
			if err := tx.Reservations.AddTable(ctx, rec.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return 0, err
		}
		return 0, fmt.Errorf("create reservation: %w", err)
	}

	notify(ctx, b.notifier, Change{
		Kind:          ChangeCreated,
		ReservationID: rec.ID,
		UserID:        req.UserID,
		Slot:          slot,
		TableIDs:      tableIDs,
		Status:        model.StatusPending,
	})
	return rec.ID, nil
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// absent returns the ids not contained in set.
func absent(ids []uint64, set map[uint64]struct{}) []uint64 {
	var out []uint64
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// present returns the ids contained in set.
func present(ids []uint64, set map[uint64]struct{}) []uint64 {
	var out []uint64
	for _, id := range ids {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
