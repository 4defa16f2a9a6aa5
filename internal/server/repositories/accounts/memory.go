package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/avoronkov/authcore/internal/common"
	"github.com/avoronkov/authcore/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps the account set in a mutex-guarded map keyed by
// normalized email. It is the default backend; durable deployments use
// the Postgres repository instead.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]*models.Account)}
}

// Create performs the check-then-insert under a single exclusive section,
// so concurrent registrations for the same email cannot both succeed.
func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok {
		return nil, common.ErrAlreadyExists
	}

	stored := account.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.accounts[stored.Email] = stored

	return stored.Clone(), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[email]
	if !ok {
		return nil, common.ErrNotFound
	}

	return account.Clone(), nil
}
