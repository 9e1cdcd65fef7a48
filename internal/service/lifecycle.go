package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Lifecycle moves reservations through their status machine:
//
//	Pending  -> Accepted | Rejected | Cancelled
//	Accepted -> Cancelled | Rejected
//
// Rejected and Cancelled are terminal.  Tables are freed by the status
// change alone; associations are kept for history.
type Lifecycle struct {
	store    *repository.Store
	notifier Notifier
}

// NewLifecycle returns a Lifecycle over store.  notifier may be nil.
func NewLifecycle(store *repository.Store, notifier Notifier) *Lifecycle {
	return &Lifecycle{store: store, notifier: notifier}
}

// Review is the staff decision on a reservation.  target must be
// Accepted or Rejected.
func (l *Lifecycle) Review(ctx context.Context, id uint64, target model.Status) (*model.Reservation, error) {
	if target != model.StatusAccepted && target != model.StatusRejected {
		return nil, ErrInvalidStatus
	}
	return l.transition(ctx, id, target)
}

// Cancel moves a Pending or Accepted reservation to Cancelled.
func (l *Lifecycle) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.transition(ctx, id, model.StatusCancelled)
}

// Delete removes a reservation and its table associations.
func (l *Lifecycle) Delete(ctx context.Context, id uint64) error {
	var gone *model.Reservation
	err := l.store.Atomic(ctx, func(tx *repository.Tx) error {
		r, err := tx.Reservations.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Reservations.Delete(ctx, id); err != nil {
			return err
		}
		gone = r
		return nil
	})
	if err != nil {
		return reservationErr(err, "delete")
	}
	notify(ctx, l.notifier, Change{
		Kind:           ChangeDeleted,
		ReservationID:  gone.ID,
		UserID:         gone.UserID,
		Slot:           gone.Slot(),
		TableIDs:       gone.TableIDs(),
		PreviousStatus: gone.Status,
	})
	return nil
}

func (l *Lifecycle) transition(ctx context.Context, id uint64, target model.Status) (*model.Reservation, error) {
	var (
		prev    model.Status
		updated *model.Reservation
	)
	err := l.store.Atomic(ctx, func(tx *repository.Tx) error {
		cur, err := tx.Reservations.StatusForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !cur.CanTransition(target) {
			return ErrBadTransition.withDetail("%s to %s", cur, target)
		}
		if err := tx.Reservations.UpdateStatus(ctx, id, target); err != nil {
			return err
		}
		prev = cur
		updated, err = tx.Reservations.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, reservationErr(err, "update status")
	}
	notify(ctx, l.notifier, Change{
		Kind:           ChangeStatusChanged,
		ReservationID:  updated.ID,
		UserID:         updated.UserID,
		Slot:           updated.Slot(),
		TableIDs:       updated.TableIDs(),
		Status:         updated.Status,
		PreviousStatus: prev,
	})
	return updated, nil
}

// reservationErr maps store errors for a single reservation onto the
// service taxonomy.
func reservationErr(err error, op string) error {
	var svcErr *Error
	switch {
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ErrUnknownReservation
	default:
		return fmt.Errorf("%s reservation: %w", op, err)
	}
}
