package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoronkov/authcore/internal/common"
	"github.com/avoronkov/authcore/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository stores accounts in Postgres. The accounts table has a
// unique index on email; the database enforces the insert-if-absent
// invariant that MemoryRepository enforces with its mutex.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (email, password_hash, display_name)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	stored := account.Clone()
	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.DisplayName).Scan(&stored.ID, &stored.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stored, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, display_name, created_at FROM accounts
		 WHERE email = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.DisplayName, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}
