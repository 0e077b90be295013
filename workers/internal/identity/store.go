// Package identity resolves user records so results can be attributed to the
// account that submitted the event.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound reports a user ID with no matching row.
var ErrNotFound = errors.New("user not found")

// User is the subset of the account record the pipeline cares about.
type User struct {
	ID       string
	Email    string
	Username string
	Role     string
}

// Store looks up users by ID.
type Store interface {
	UserByID(ctx context.Context, id string) (*User, error)
}

// PostgresStore reads users from the ingest service's users table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore builds a store over an established pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// UserByID fetches one user. Returns ErrNotFound for unknown IDs.
func (s *PostgresStore) UserByID(ctx context.Context, id string) (*User, error) {
	const query = `SELECT id, email, username, role FROM users WHERE id = $1`

	var u User
	err := s.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Username, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}
	return &u, nil
}
