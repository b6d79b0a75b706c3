package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

const createGamesTable = `
create table if not exists games (
	id text primary key,
	title text not null,
	description text not null,
	category text not null,
	build_path text null,
	thumbnail_url text null,
	created_at timestamptz not null
);
`

const selectGame = `
select id, title, description, category, build_path, thumbnail_url, created_at
from games`

type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) repository.GameRepository {
	return &GameRepository{pool: pool}
}

func (r *GameRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createGamesTable); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) error {
	const q = `
insert into games (id, title, description, category, build_path, thumbnail_url, created_at)
values ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, q,
		game.ID,
		game.Title,
		game.Description,
		game.Category,
		game.BuildPath,
		game.ThumbnailURL,
		game.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	game, err := scanGame(r.pool.QueryRow(ctx, selectGame+`
where id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("game", id)
	}
	return game, err
}

func (r *GameRepository) List(ctx context.Context, category string) ([]domain.Game, error) {
	query := selectGame
	var args []any
	if category = domain.NormalizeCategory(category); category != "" {
		query += "\nwhere category = $1"
		args = append(args, category)
	}
	query += "\norder by created_at desc, id asc"

	rows, err := r.pool.Query(ctx, query, args...)
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
	ct, err := r.pool.Exec(ctx, `delete from games where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFound("game", id)
	}
	return nil
}

func (r *GameRepository) UploadReferences(ctx context.Context) ([]string, error) {
	refs, err := collectStrings(ctx, r.pool, `
select ref from (
	select build_path as ref from games
	union all
	select thumbnail_url from games
) refs where ref is not null`)
	if err != nil {
		return nil, fmt.Errorf("game upload references: %w", err)
	}
	return refs, nil
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var game domain.Game
	if err := row.Scan(
		&game.ID,
		&game.Title,
		&game.Description,
		&game.Category,
		&game.BuildPath,
		&game.ThumbnailURL,
		&game.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	game.CreatedAt = utc(game.CreatedAt)
	return &game, nil
}

var _ repository.ReferenceLister = (*GameRepository)(nil)
