package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Availability answers which tables are held for a slot.  A table is
// held iff a Pending or Accepted reservation for exactly that slot is
// associated with it; freeing a table is therefore a pure function of
// reservation status.
type Availability struct {
	store *repository.Store
}

// NewAvailability returns an Availability resolver over store.
func NewAvailability(store *repository.Store) *Availability {
	return &Availability{store: store}
}

// TablesBookedFor returns the set of table ids held for slot.
func (a *Availability) TablesBookedFor(ctx context.Context, slot model.Slot) (map[uint64]struct{}, error) {
	return bookedSet(ctx, a.store.Reservations, slot)
}

// TableStatus reports every dining table, ordered by id, with whether it
// is booked for the given date and time.
func (a *Availability) TableStatus(ctx context.Context, date, clock string) ([]model.TableStatus, error) {
	slot, err := ParseSlot(date, clock)
	if err != nil {
		return nil, err
	}
	booked, err := a.TablesBookedFor(ctx, slot)
	if err != nil {
		return nil, err
	}
	tables, err := a.store.Tables.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	out := make([]model.TableStatus, 0, len(tables))
	for _, t := range tables {
		_, held := booked[t.ID]
		out = append(out, model.TableStatus{DiningTable: t, IsBooked: held})
	}
	return out, nil
}

func bookedSet(ctx context.Context, repo *repository.ReservationRepo, slot model.Slot) (map[uint64]struct{}, error) {
	ids, err := repo.BookedTableIDs(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("booked tables for %s: %w", slot, err)
	}
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
