package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var pgxPool *pgxpool.Pool

// BootPgxPool opens the pool used by the settings repository. The rest of the
// application goes through GORM; the single-row settings area is raw SQL.
func BootPgxPool(ctx context.Context) (*pgxpool.Pool, error) {
	if pgxPool != nil {
		return pgxPool, nil
	}

	pool, err := pgxpool.New(ctx, GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pgxPool = pool
	return pgxPool, nil
}
