package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Tables administers the dining table catalogue.
type Tables struct {
	store    *repository.Store
	notifier Notifier
}

// NewTables returns a Tables over store.  notifier may be nil.
func NewTables(store *repository.Store, notifier Notifier) *Tables {
	return &Tables{store: store, notifier: notifier}
}

// Create adds a table.  Table numbers are unique and capacity must be
// positive.
func (t *Tables) Create(ctx context.Context, number string, capacity uint32) (*model.DiningTable, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, missingField("table_number")
	}
	if len(number) > 10 {
		return nil, newError("table_number must be at most 10 characters", ErrValidation)
	}
	if capacity == 0 {
		return nil, newError("capacity must be positive", ErrValidation)
	}
	tbl := &model.DiningTable{TableNumber: number, Capacity: capacity}
	if err := t.store.Tables.Create(ctx, tbl); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicate.withDetail("table_number %q", number)
		}
		return nil, fmt.Errorf("create table: %w", err)
	}
	notify(ctx, t.notifier, Change{Kind: ChangeTables})
	return tbl, nil
}

// Delete removes a table that no reservation references.
func (t *Tables) Delete(ctx context.Context, id uint64) error {
	err := t.store.Atomic(ctx, func(tx *repository.Tx) error {
		return tx.Tables.Delete(ctx, id)
	})
	switch {
	case err == nil:
		notify(ctx, t.notifier, Change{Kind: ChangeTables})
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUnknownTable
	case errors.Is(err, repository.ErrInUse):
		return ErrTableInUse
	default:
		return fmt.Errorf("delete table: %w", err)
	}
}

// List returns all tables ordered by id.
func (t *Tables) List(ctx context.Context) ([]model.DiningTable, error) {
	list, err := t.store.Tables.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if list == nil {
		list = []model.DiningTable{}
	}
	return list, nil
}
