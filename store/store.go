// Package store is the postgres persistence layer for user credit
// balances and provisioned instances.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vpsbot/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInstanceNotFound = errors.New("instance not found")

const instanceCols = "id, user_id, container_name, plan, ram_mb, cpu_cores, arch, status, created_at"

type Store struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// InitSchema creates the tables if they do not exist. Reruns are no-ops.
// Statements run one at a time, pgx's extended protocol does not take
// multi-statement strings.
func (s *Store) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	credits BIGINT NOT NULL DEFAULT 0,
	api_token TEXT
)`,
		`CREATE TABLE IF NOT EXISTS instances (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	container_name TEXT NOT NULL,
	plan TEXT NOT NULL,
	ram_mb INT NOT NULL DEFAULT 0,
	cpu_cores INT NOT NULL DEFAULT 0,
	arch TEXT NOT NULL DEFAULT 'intel',
	status TEXT NOT NULL DEFAULT 'running',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`CREATE INDEX IF NOT EXISTS instances_user_id_idx ON instances (user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	return nil
}

// GetCredits returns the user's balance, 0 for unknown users.
func (s *Store) GetCredits(ctx context.Context, userID string) (int64, error) {
	var credits int64

	err := s.Pool.QueryRow(ctx, "SELECT credits FROM users WHERE user_id = $1", userID).Scan(&credits)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return credits, nil
}

// AddCredits upserts the user row and adds to the balance.
func (s *Store) AddCredits(ctx context.Context, userID string, amount int64) error {
	_, err := s.Pool.Exec(
		ctx,
		"INSERT INTO users (user_id, credits) VALUES ($1, $2) ON CONFLICT (user_id) DO UPDATE SET credits = users.credits + $2",
		userID,
		amount,
	)

	return err
}

// RemoveCredits subtracts from the balance, flooring at zero. Returns
// false when the user has no row at all.
func (s *Store) RemoveCredits(ctx context.Context, userID string, amount int64) (bool, error) {
	tag, err := s.Pool.Exec(
		ctx,
		"UPDATE users SET credits = GREATEST(credits - $2, 0) WHERE user_id = $1",
		userID,
		amount,
	)

	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// ZeroCredits wipes the user's balance.
func (s *Store) ZeroCredits(ctx context.Context, userID string) error {
	_, err := s.Pool.Exec(ctx, "UPDATE users SET credits = 0 WHERE user_id = $1", userID)

	return err
}

// CreateInstance records a newly provisioned container and returns its ID.
func (s *Store) CreateInstance(ctx context.Context, userID, containerName, plan string, ramMB, cpuCores int, arch string) (int64, error) {
	var id int64

	err := s.Pool.QueryRow(
		ctx,
		"INSERT INTO instances (user_id, container_name, plan, ram_mb, cpu_cores, arch, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, 'running', $7) RETURNING id",
		userID,
		containerName,
		plan,
		ramMB,
		cpuCores,
		arch,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetInstance fetches a single instance by ID.
func (s *Store) GetInstance(ctx context.Context, id int64) (*types.Instance, error) {
	rows, err := s.Pool.Query(ctx, "SELECT "+instanceCols+" FROM instances WHERE id = $1", id)

	if err != nil {
		return nil, err
	}

	inst, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.Instance])

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInstanceNotFound
	}

	if err != nil {
		return nil, err
	}

	return &inst, nil
}

// ListInstancesByUser lists all instances owned by a user.
func (s *Store) ListInstancesByUser(ctx context.Context, userID string) ([]types.Instance, error) {
	rows, err := s.Pool.Query(ctx, "SELECT "+instanceCols+" FROM instances WHERE user_id = $1 ORDER BY id", userID)

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[types.Instance])
}

// ListInstances lists every known instance, for reconciliation.
func (s *Store) ListInstances(ctx context.Context) ([]types.Instance, error) {
	rows, err := s.Pool.Query(ctx, "SELECT "+instanceCols+" FROM instances ORDER BY id")

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[types.Instance])
}

// DeleteInstance removes the record of a destroyed container.
func (s *Store) DeleteInstance(ctx context.Context, id int64) error {
	_, err := s.Pool.Exec(ctx, "DELETE FROM instances WHERE id = $1", id)

	return err
}

// UpdateInstanceStatus persists the last observed container status.
func (s *Store) UpdateInstanceStatus(ctx context.Context, id int64, status string) error {
	_, err := s.Pool.Exec(ctx, "UPDATE instances SET status = $2 WHERE id = $1", id, status)

	return err
}
