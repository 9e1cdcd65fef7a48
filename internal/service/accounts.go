package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// ErrBadCredentials is returned by Accounts.Login for an unknown
// username or a wrong password.  It matches none of the error kinds.
var ErrBadCredentials = errors.New("invalid username or password")

var (
	ErrUsernameTaken = newError("username already exists", ErrConflict)
	ErrEmailTaken    = newError("email address already registered", ErrConflict)
)

// Registration is the input of Accounts.Register.
type Registration struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// Accounts registers customers and checks their credentials.
type Accounts struct {
	store      *repository.Store
	bcryptCost int
}

// NewAccounts returns an Accounts over store hashing with bcryptCost.
func NewAccounts(store *repository.Store, bcryptCost int) *Accounts {
	return &Accounts{store: store, bcryptCost: bcryptCost}
}

// Register creates a customer.  Usernames and emails are unique.
func (a *Accounts) Register(ctx context.Context, reg Registration) (*model.User, error) {
	u := &model.User{
		Username:    strings.TrimSpace(reg.Username),
		Email:       strings.TrimSpace(reg.Email),
		PhoneNumber: strings.TrimSpace(reg.Phone),
	}
	switch {
	case u.Username == "":
		return nil, missingField("username")
	case u.Email == "":
		return nil, missingField("email")
	case u.PhoneNumber == "":
		return nil, missingField("phone")
	case reg.Password == "":
		return nil, missingField("password")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, newError("email is not a valid address", ErrValidation)
	}

	if err := a.store.Users.Create(ctx, u, reg.Password, a.bcryptCost); err != nil {
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			switch dup.Column {
			case "email":
				return nil, ErrEmailTaken
			case "username":
				return nil, ErrUsernameTaken
			}
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login returns the user whose username and password match.
func (a *Accounts) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := a.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPassword(password)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}
