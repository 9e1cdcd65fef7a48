package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Queries is the read-only façade used by the HTTP layer.  Nothing here
// writes, so repeated calls return the same result until a write commits.
type Queries struct {
	store *repository.Store
	avail *Availability
}

// NewQueries returns a Queries over store.
func NewQueries(store *repository.Store) *Queries {
	return &Queries{store: store, avail: NewAvailability(store)}
}

// ForUser lists the reservations owned by userID, newest date first.
func (q *Queries) ForUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	ok, err := q.store.Users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return nil, ErrUnknownUser
	}
	list, err := q.store.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user reservations: %w", err)
	}
	return nonNil(list), nil
}

// All lists every reservation by date and time descending.
func (q *Queries) All(ctx context.Context) ([]model.Reservation, error) {
	list, err := q.store.Reservations.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return nonNil(list), nil
}

// Get returns one reservation with its tables.
func (q *Queries) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := q.store.Reservations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownReservation
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}

// TableStatus reports every table with its booked flag for a slot.
func (q *Queries) TableStatus(ctx context.Context, date, clock string) ([]model.TableStatus, error) {
	return q.avail.TableStatus(ctx, date, clock)
}

func nonNil(list []model.Reservation) []model.Reservation {
	if list == nil {
		return []model.Reservation{}
	}
	return list
}
