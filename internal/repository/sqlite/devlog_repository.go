package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

const createBlogPostsTable = `
CREATE TABLE IF NOT EXISTS blog_posts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	category TEXT NOT NULL,
	tags TEXT NULL,
	image_url TEXT NULL,
	views INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_created_at ON blog_posts(created_at);
`

const selectBlogPost = `
SELECT id, title, content, category, tags, image_url, views, created_at, updated_at
FROM blog_posts`

// counterColumns whitelists the columns Increment may touch.
var counterColumns = map[domain.CounterField]string{
	domain.CounterViews: "views",
}

type DevLogRepository struct {
	db *sql.DB
}

func NewDevLogRepository(db *sql.DB) repository.DevLogRepository {
	return &DevLogRepository{db: db}
}

func (r *DevLogRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBlogPostsTable); err != nil {
		return fmt.Errorf("create blog_posts table: %w", err)
	}
	return nil
}

func (r *DevLogRepository) Create(ctx context.Context, post *domain.DevLog) error {
	tags, err := encodeList(post.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO blog_posts (id, title, content, category, tags, image_url, views, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.Category,
		tags,
		nullable(post.ImageURL),
		post.Views,
		post.CreatedAt.UTC(),
		post.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}

func (r *DevLogRepository) Get(ctx context.Context, id string) (*domain.DevLog, error) {
	row := r.db.QueryRowContext(ctx, selectBlogPost+`
WHERE id=?`, id)
	post, err := scanDevLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("dev log", id)
	}
	return post, err
}

func (r *DevLogRepository) List(ctx context.Context, filter domain.DevLogFilter) ([]domain.DevLog, error) {
	var (
		where []string
		args  []any
	)
	if category := filter.CategoryFilter(); category != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}
	if len(filter.Tags) > 0 {
		placeholders := make([]string, len(filter.Tags))
		for i, tag := range filter.Tags {
			placeholders[i] = "?"
			args = append(args, tag)
		}
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM json_each(blog_posts.tags) WHERE json_each.value IN (%s))",
			strings.Join(placeholders, ","),
		))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := repository.ContainsPattern(search)
		where = append(where, fmt.Sprintf(`(%[1]s(title) LIKE ? ESCAPE '\' OR %[1]s(content) LIKE ? ESCAPE '\')`, foldFunc))
		args = append(args, pattern, pattern)
	}

	query := selectBlogPost
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY created_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
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
		encoded, err := encodeList(*patch.Tags)
		if err != nil {
			return nil, err
		}
		if encoded == nil {
			encoded = "[]"
		}
		tags = encoded
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE blog_posts
SET title=COALESCE(?, title),
	content=COALESCE(?, content),
	category=COALESCE(?, category),
	tags=COALESCE(?, tags),
	image_url=COALESCE(?, image_url),
	updated_at=?
WHERE id=?`,
		nullable(patch.Title),
		nullable(patch.Content),
		nullable(patch.Category),
		tags,
		nullable(patch.ImageURL),
		updatedAt.UTC(),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("blog post update rows affected: %w", err)
	}
	if aff == 0 {
		return nil, domain.NotFound("dev log", id)
	}

	post, err := scanDevLog(tx.QueryRowContext(ctx, selectBlogPost+`
WHERE id=?`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit blog post update: %w", err)
	}
	return post, nil
}

func (r *DevLogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("blog post delete rows affected: %w", err)
	}
	if aff == 0 {
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
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE blog_posts SET %[1]s = %[1]s + 1 WHERE id=? RETURNING %[1]s`, column),
		id,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NotFound("dev log", id)
		}
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return value, nil
}

func (r *DevLogRepository) UploadReferences(ctx context.Context) ([]string, error) {
	refs, err := collectStrings(ctx, r.db, `SELECT image_url FROM blog_posts WHERE image_url IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("blog post upload references: %w", err)
	}
	return refs, nil
}

func scanDevLog(row scanner) (*domain.DevLog, error) {
	var (
		post      domain.DevLog
		tags      sql.NullString
		imageURL  sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Category,
		&tags,
		&imageURL,
		&post.Views,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan blog post: %w", err)
	}

	decoded, err := decodeList(tags)
	if err != nil {
		return nil, err
	}
	post.Tags = decoded
	post.ImageURL = nullString(imageURL)
	post.CreatedAt = createdAt.UTC()
	post.UpdatedAt = updatedAt.UTC()
	return &post, nil
}

var _ repository.ReferenceLister = (*DevLogRepository)(nil)
