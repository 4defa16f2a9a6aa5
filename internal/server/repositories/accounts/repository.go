// Package accounts declares the server-side repository contract for the
// account store, plus its in-memory and Postgres implementations.
package accounts

import (
	"context"

	"github.com/avoronkov/authcore/internal/server/models"
)

// Repository defines operations for creating and looking up accounts.
// Implementations must provide an atomic insert-if-absent so that two
// concurrent registrations for the same normalized email admit exactly
// one winner.
type Repository interface {
	// Create stores a new account. The email must already be normalized.
	// A duplicate email yields common.ErrAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail looks up an account by normalized email. An absent
	// account yields common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}
