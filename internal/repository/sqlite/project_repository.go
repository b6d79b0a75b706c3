package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

const createProjectsTable = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	image_url TEXT NULL,
	technologies TEXT NULL,
	platform TEXT NULL,
	date TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProjectsTable); err != nil {
		return fmt.Errorf("create projects table: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	technologies, err := encodeList(project.Technologies)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO projects (id, title, description, category, image_url, technologies, platform, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.Description,
		project.Category,
		nullable(project.ImageURL),
		technologies,
		nullable(project.Platform),
		project.Date,
		project.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, category string) ([]domain.Project, error) {
	query := `
SELECT id, title, description, category, image_url, technologies, platform, date, created_at
FROM projects`
	var args []any
	if category = domain.NormalizeCategory(category); category != "" {
		query += "\nWHERE category = ?"
		args = append(args, category)
	}
	query += "\nORDER BY created_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var (
			project      domain.Project
			imageURL     sql.NullString
			technologies sql.NullString
			platform     sql.NullString
			createdAt    time.Time
		)
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.Category,
			&imageURL,
			&technologies,
			&platform,
			&project.Date,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		project.ImageURL = nullString(imageURL)
		project.Platform = nullString(platform)
		project.CreatedAt = createdAt.UTC()
		if project.Technologies, err = decodeList(technologies); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) UploadReferences(ctx context.Context) ([]string, error) {
	refs, err := collectStrings(ctx, r.db, `SELECT image_url FROM projects WHERE image_url IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("project upload references: %w", err)
	}
	return refs, nil
}

var _ repository.ReferenceLister = (*ProjectRepository)(nil)
