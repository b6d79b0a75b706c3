package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"devfolio/internal/repository"
)

// NewStore bundles the sqlite repositories sharing db.
func NewStore(db *sql.DB) repository.Store {
	return repository.Store{
		DevLogs:  NewDevLogRepository(db),
		Games:    NewGameRepository(db),
		Projects: NewProjectRepository(db),
		Users:    NewUserRepository(db),
		Ping:     db.PingContext,
		Close:    func() { _ = db.Close() },
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// encodeList stores a string list as JSON text; nil stays NULL.
func encodeList(items []string) (any, error) {
	if items == nil {
		return nil, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return string(raw), nil
}

func decodeList(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(col.String), &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}

func nullString(col sql.NullString) *string {
	if !col.Valid {
		return nil
	}
	v := col.String
	return &v
}

func collectStrings(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid && v.String != "" {
			out = append(out, v.String)
		}
	}
	return out, rows.Err()
}

// nullable turns an optional string into a NULL-able driver argument.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
