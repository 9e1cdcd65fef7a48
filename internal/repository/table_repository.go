package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides access to the dining_tables reference data.
type TableRepo struct {
	db   Querier
	lock string
}

// Create inserts a dining table and populates its ID.  A taken table
// number yields a *DuplicateKeyError.
func (r *TableRepo) Create(ctx context.Context, t *model.DiningTable) error {
	t.TableNumber = strings.TrimSpace(t.TableNumber)
	const q = `INSERT INTO dining_tables (table_number, capacity) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.TableNumber, t.Capacity)
	if err != nil {
		return asDuplicateKey(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// List returns every dining table ordered by id.
func (r *TableRepo) List(ctx context.Context) ([]model.DiningTable, error) {
	const q = `SELECT id, table_number, capacity FROM dining_tables ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]model.DiningTable, 0)
	for rows.Next() {
		var t model.DiningTable
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.Capacity); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// LockExisting returns which of ids exist.  Inside a transaction on
// MySQL the matching rows are locked until commit, which serializes
// bookings that touch the same tables.
func (r *TableRepo) LockExisting(ctx context.Context, ids []uint64) (map[uint64]struct{}, error) {
	found := make(map[uint64]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	in, args := placeholders(ids)
	q := `SELECT id FROM dining_tables WHERE id IN (` + in + `) ORDER BY id` + r.lock
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = struct{}{}
	}
	return found, rows.Err()
}

// Delete removes a table that no reservation references.  It returns
// ErrNotFound when the table is absent and ErrInUse when it is still
// associated with a reservation.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservation_tables WHERE table_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("table %d: %w by %d reservation(s)", id, ErrInUse, refs)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM dining_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
