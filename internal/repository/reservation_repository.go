package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// tables.  Tables booked under a reservation are stored in the
// reservation_tables join table, one row per (reservation, table) pair.
// Writes are only safe inside Store.Atomic.
type ReservationRepo struct {
	db   Querier
	lock string
}

// ReservationRecord carries the columns needed to insert a reservation.
type ReservationRecord struct {
	ID           uint64
	CustomerName string
	ContactInfo  string
	Slot         model.Slot
	Status       model.Status
	UserID       *uint64
}

// Create inserts a new reservation and populates the generated ID on
// rec.  Associations are added separately with AddTable.
func (r *ReservationRepo) Create(ctx context.Context, rec *ReservationRecord) error {
	const q = `INSERT INTO reservations (customer_name, contact_info, reservation_date, reservation_time, status, user_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	var userID sql.NullInt64
	if rec.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*rec.UserID), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q,
		rec.CustomerName, rec.ContactInfo, rec.Slot.Date, rec.Slot.DBTime(), string(rec.Status), userID)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// AddTable associates one table with a reservation.
func (r *ReservationRepo) AddTable(ctx context.Context, reservationID, tableID uint64) error {
	const q = `INSERT INTO reservation_tables (reservation_id, table_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, reservationID, tableID); err != nil {
		return fmt.Errorf("associate table %d: %w", tableID, err)
	}
	return nil
}

// BookedTableIDs returns the distinct ids of tables held for slot by a
// reservation whose status still holds tables (Pending or Accepted),
// ordered by id.
func (r *ReservationRepo) BookedTableIDs(ctx context.Context, slot model.Slot) ([]uint64, error) {
	const q = `SELECT DISTINCT rt.table_id
	           FROM reservation_tables rt
	           JOIN reservations r ON r.id = rt.reservation_id
	           WHERE r.reservation_date = ? AND r.reservation_time = ? AND r.status IN (?, ?)
	           ORDER BY rt.table_id`
	rows, err := r.db.QueryContext(ctx, q, slot.Date, slot.DBTime(),
		string(model.HoldingStatuses[0]), string(model.HoldingStatuses[1]))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// StatusForUpdate returns the current status of a reservation, locking
// its row for the rest of the transaction on MySQL.  It returns
// ErrNotFound when the reservation does not exist.
func (r *ReservationRepo) StatusForUpdate(ctx context.Context, id uint64) (model.Status, error) {
	var st string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = ?`+r.lock, id).Scan(&st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return model.Status(st), nil
}

// UpdateStatus sets the status of a reservation.  Callers are expected
// to have validated the transition under StatusForUpdate.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a reservation and its associations.  The join rows are
// deleted explicitly so the cascade does not depend on the driver having
// foreign keys enabled.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reservation_tables WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectReservation = `SELECT id, customer_name, contact_info, reservation_date, reservation_time, status, user_id, created_at
                           FROM reservations`

// Get returns a single reservation with its tables.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	list, err := r.list(ctx, selectReservation+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// ListByUser returns the reservations owned by userID, newest date
// first; reservations on the same date keep insertion order.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx, selectReservation+` WHERE user_id = ? ORDER BY reservation_date DESC, id ASC`, userID)
}

// ListAll returns every reservation ordered by date and time descending.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return r.list(ctx, selectReservation+` ORDER BY reservation_date DESC, reservation_time DESC, id ASC`)
}

// list runs a reservation query and then populates the tables of all
// returned reservations with a single IN query.
func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var (
			res    model.Reservation
			date   dateCol
			clock  clockCol
			status string
			userID sql.NullInt64
		)
		if err := rows.Scan(&res.ID, &res.CustomerName, &res.ContactInfo, &date, &clock, &status, &userID, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Date, res.Time, res.Status = string(date), string(clock), model.Status(status)
		if userID.Valid {
			uid := uint64(userID.Int64)
			res.UserID = &uid
		}
		res.Tables = []model.DiningTable{}
		index[res.ID] = len(out)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the connection before the follow-up query; SQLite runs
	// with a single pooled connection.
	rows.Close()
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uint64, 0, len(out))
	for _, res := range out {
		ids = append(ids, res.ID)
	}
	in, targs := placeholders(ids)
	tableQuery := `SELECT rt.reservation_id, t.id, t.table_number, t.capacity
	               FROM reservation_tables rt
	               JOIN dining_tables t ON t.id = rt.table_id
	               WHERE rt.reservation_id IN (` + in + `)
	               ORDER BY rt.reservation_id, t.id`
	trows, err := r.db.QueryContext(ctx, tableQuery, targs...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var resID uint64
		var t model.DiningTable
		if err := trows.Scan(&resID, &t.ID, &t.TableNumber, &t.Capacity); err != nil {
			return nil, err
		}
		if idx, ok := index[resID]; ok {
			out[idx].Tables = append(out[idx].Tables, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
