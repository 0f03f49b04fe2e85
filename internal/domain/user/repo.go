package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no user row matches.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when an insert loses the race against another
// signup holding the same username or email.
var ErrDuplicate = errors.New("username or email already taken")

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
