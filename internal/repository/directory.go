package repository

import (
	"context"
	"time"

	"github.com/edulite/edulite/internal/model"
)

// AccountDirectory is the user-record store the auth and admin handlers
// depend on. UserRepo implements it over MySQL; tests substitute an
// in-memory fake. Each call is atomic; email uniqueness is enforced by the
// store itself, so concurrent signups with the same address cannot both
// succeed.
type AccountDirectory interface {
	// Create persists a new account. When the user carries no federated
	// marker the plain password is hashed before storage; otherwise a
	// randomized placeholder is hashed instead and plainPassword is ignored.
	// On success the user's ID and timestamps are filled in.
	Create(ctx context.Context, u *model.User, plainPassword string, bcryptCost int) error

	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)

	// Update mutates profile fields only. The stored secret is untouched:
	// a hash is written solely by Create or an explicit password change.
	Update(ctx context.Context, u *model.User) error

	// LinkGoogleID attaches a federated identity to an existing account
	// matched by email during first-time federated login.
	LinkGoogleID(ctx context.Context, id uint64, googleID string) error

	Delete(ctx context.Context, id uint64) error

	// FeeRecords builds the admin fee listing across all students.
	FeeRecords(ctx context.Context) ([]model.FeeRecord, error)

	// RecordFee applies a payment against an account's balance and returns
	// the updated record. The account's existence is the only precondition;
	// role filtering is the caller's concern.
	RecordFee(ctx context.Context, id uint64, totalFee, amountPaid int64, nextDue time.Time) (*model.User, error)
}
