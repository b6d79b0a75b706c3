package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

const createBlogPostsTable = `
create table if not exists blog_posts (
	id text primary key,
	title text not null,
	content text not null,
	category text not null,
	tags text[] null,
	image_url text null,
	views bigint not null default 0,
	created_at timestamptz not null,
	updated_at timestamptz not null
);
create index if not exists idx_blog_posts_created_at on blog_posts (created_at desc);
create index if not exists idx_blog_posts_tags on blog_posts using gin (tags);
`

const selectBlogPost = `
select id, title, content, category, tags, image_url, views, created_at, updated_at
from blog_posts`

var counterColumns = map[domain.CounterField]string{
	domain.CounterViews: "views",
}

type DevLogRepository struct {
	pool *pgxpool.Pool
}

func NewDevLogRepository(pool *pgxpool.Pool) repository.DevLogRepository {
	return &DevLogRepository{pool: pool}
}

func (r *DevLogRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createBlogPostsTable); err != nil {
		return fmt.Errorf("create blog_posts table: %w", err)
	}
	return nil
}

func (r *DevLogRepository) Create(ctx context.Context, post *domain.DevLog) error {
	const q = `
insert into blog_posts (id, title, content, category, tags, image_url, views, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.pool.Exec(ctx, q,
		post.ID,
		post.Title,
		post.Content,
		post.Category,
		post.Tags,
		post.ImageURL,
		post.Views,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}

func (r *DevLogRepository) Get(ctx context.Context, id string) (*domain.DevLog, error) {
	post, err := scanDevLog(r.pool.QueryRow(ctx, selectBlogPost+`
where id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("dev log", id)
	}
	return post, err
}

func (r *DevLogRepository) List(ctx context.Context, filter domain.DevLogFilter) ([]domain.DevLog, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if category := filter.CategoryFilter(); category != "" {
		where = append(where, "category = "+arg(category))
	}
	if len(filter.Tags) > 0 {
		where = append(where, "tags && "+arg(filter.Tags)+"::text[]")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := arg(repository.ContainsPattern(search))
		where = append(where, fmt.Sprintf(`(title ilike %[1]s escape '\' or content ilike %[1]s escape '\')`, p))
	}

	query := selectBlogPost
	if len(where) > 0 {
		query += "\nwhere " + strings.Join(where, " and ")
	}
	query += "\norder by created_at desc, id asc"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blog posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.DevLog{}
	for rows.Next() {
		post, err := scanDevLog(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *DevLogRepository) Update(ctx context.Context, id string, patch domain.DevLogPatch, updatedAt time.Time) (*domain.DevLog, error) {
	var tags any
	if patch.Tags != nil {
		tags = *patch.Tags
		if *patch.Tags == nil {
			tags = []string{}
		}
	}

	const q = `
update blog_posts
set title = coalesce($2, title),
	content = coalesce($3, content),
	category = coalesce($4, category),
	tags = coalesce($5::text[], tags),
	image_url = coalesce($6, image_url),
	updated_at = $7
where id = $1
returning id, title, content, category, tags, image_url, views, created_at, updated_at;
`
	post, err := scanDevLog(r.pool.QueryRow(ctx, q,
		id,
		patch.Title,
		patch.Content,
		patch.Category,
		tags,
		patch.ImageURL,
		updatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("dev log", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return post, nil
}

func (r *DevLogRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `delete from blog_posts where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFound("dev log", id)
	}
	return nil
}

func (r *DevLogRepository) Increment(ctx context.Context, id string, field domain.CounterField) (int64, error) {
	column, ok := counterColumns[field]
	if !ok {
		return 0, fmt.Errorf("unknown counter field %q", field)
	}

	var value int64
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`update blog_posts set %[1]s = %[1]s + 1 where id = $1 returning %[1]s`, column),
		id,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NotFound("dev log", id)
		}
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return value, nil
}

func (r *DevLogRepository) UploadReferences(ctx context.Context) ([]string, error) {
	refs, err := collectStrings(ctx, r.pool, `select image_url from blog_posts where image_url is not null`)
	if err != nil {
		return nil, fmt.Errorf("blog post upload references: %w", err)
	}
	return refs, nil
}

func scanDevLog(row pgx.Row) (*domain.DevLog, error) {
	var post domain.DevLog
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Category,
		&post.Tags,
		&post.ImageURL,
		&post.Views,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan blog post: %w", err)
	}
	post.CreatedAt = utc(post.CreatedAt)
	post.UpdatedAt = utc(post.UpdatedAt)
	return &post, nil
}

var _ repository.ReferenceLister = (*DevLogRepository)(nil)
