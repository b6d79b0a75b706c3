package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

const createProjectsTable = `
create table if not exists projects (
	id text primary key,
	title text not null,
	description text not null,
	category text not null,
	image_url text null,
	technologies text[] null,
	platform text null,
	date text not null,
	created_at timestamptz not null
);
`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createProjectsTable); err != nil {
		return fmt.Errorf("create projects table: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	const q = `
insert into projects (id, title, description, category, image_url, technologies, platform, date, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.pool.Exec(ctx, q,
		project.ID,
		project.Title,
		project.Description,
		project.Category,
		project.ImageURL,
		project.Technologies,
		project.Platform,
		project.Date,
		project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, category string) ([]domain.Project, error) {
	query := `
select id, title, description, category, image_url, technologies, platform, date, created_at
from projects`
	var args []any
	if category = domain.NormalizeCategory(category); category != "" {
		query += "\nwhere category = $1"
		args = append(args, category)
	}
	query += "\norder by created_at desc, id asc"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Category,
			&p.ImageURL,
			&p.Technologies,
			&p.Platform,
			&p.Date,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt = utc(p.CreatedAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) UploadReferences(ctx context.Context) ([]string, error) {
	refs, err := collectStrings(ctx, r.pool, `select image_url from projects where image_url is not null`)
	if err != nil {
		return nil, fmt.Errorf("project upload references: %w", err)
	}
	return refs, nil
}

var _ repository.ReferenceLister = (*ProjectRepository)(nil)
