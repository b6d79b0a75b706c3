package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"devfolio/internal/repository"
)

// NewStore bundles the postgres repositories sharing pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		DevLogs:  NewDevLogRepository(pool),
		Games:    NewGameRepository(pool),
		Projects: NewProjectRepository(pool),
		Users:    NewUserRepository(pool),
		Ping:     pool.Ping,
		Close:    pool.Close,
	}
}

func collectStrings(ctx context.Context, pool *pgxpool.Pool, query string) ([]string, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v *string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v != nil && *v != "" {
			out = append(out, *v)
		}
	}
	return out, rows.Err()
}

func utc(t time.Time) time.Time { return t.UTC() }
