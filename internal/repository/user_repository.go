package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// UserRepo persists customer accounts in the 'users' table.
type UserRepo struct{ db Querier }

// Create hashes password with bcrypt, inserts the user and populates its ID.
// A taken username or email yields a *DuplicateKeyError.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, phone_number, password_hash) VALUES (?,?,?,?)",
		u.Username, u.Email, u.PhoneNumber, hash)
	if err != nil {
		return asDuplicateKey(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	return nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "username = ?", strings.TrimSpace(username))
}

// Exists reports whether a user with id exists.
func (r *UserRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, phone_number, password_hash, created_at FROM users WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
