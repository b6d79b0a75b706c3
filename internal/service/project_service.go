package service

import (
	"context"

	"github.com/google/uuid"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

type ProjectService interface {
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	List(ctx context.Context, category string) ([]domain.Project, error)
}

type projectService struct {
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	verr := &domain.ValidationError{}
	requireText(verr, "title", in.Title)
	requireText(verr, "description", in.Description)
	requireText(verr, "category", in.Category)
	requireText(verr, "date", in.Date)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	project := &domain.Project{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		ImageURL:     optional(in.ImageURL),
		Technologies: cleanTags(in.Technologies),
		Platform:     optional(in.Platform),
		Date:         in.Date,
		CreatedAt:    now(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, domain.Upstream("create project", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, category string) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx, category)
	if err != nil {
		return nil, domain.Upstream("list projects", err)
	}
	return projects, nil
}
