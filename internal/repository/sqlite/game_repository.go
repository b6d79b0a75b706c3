package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	build_path TEXT NULL,
	thumbnail_url TEXT NULL,
	created_at DATETIME NOT NULL
);
`

const selectGame = `
SELECT id, title, description, category, build_path, thumbnail_url, created_at
FROM games`

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGamesTable); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO games (id, title, description, category, build_path, thumbnail_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.ID,
		game.Title,
		game.Description,
		game.Category,
		nullable(game.BuildPath),
		nullable(game.ThumbnailURL),
		game.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	game, err := scanGame(r.db.QueryRowContext(ctx, selectGame+`
WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("game", id)
	}
	return game, err
}

func (r *GameRepository) List(ctx context.Context, category string) ([]domain.Game, error) {
	query := selectGame
	var args []any
	if category = domain.NormalizeCategory(category); category != "" {
		query += "\nWHERE category = ?"
		args = append(args, category)
	}
	query += "\nORDER BY created_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []domain.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

func (r *GameRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("game delete rows affected: %w", err)
	}
	if aff == 0 {
		return domain.NotFound("game", id)
	}
	return nil
}

func (r *GameRepository) UploadReferences(ctx context.Context) ([]string, error) {
	builds, err := collectStrings(ctx, r.db, `SELECT build_path FROM games WHERE build_path IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("game build references: %w", err)
	}
	thumbs, err := collectStrings(ctx, r.db, `SELECT thumbnail_url FROM games WHERE thumbnail_url IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("game thumbnail references: %w", err)
	}
	return append(builds, thumbs...), nil
}

func scanGame(row scanner) (*domain.Game, error) {
	var (
		game      domain.Game
		buildPath sql.NullString
		thumbnail sql.NullString
		createdAt time.Time
	)
	if err := row.Scan(
		&game.ID,
		&game.Title,
		&game.Description,
		&game.Category,
		&buildPath,
		&thumbnail,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	game.BuildPath = nullString(buildPath)
	game.ThumbnailURL = nullString(thumbnail)
	game.CreatedAt = createdAt.UTC()
	return &game, nil
}

var _ repository.ReferenceLister = (*GameRepository)(nil)
