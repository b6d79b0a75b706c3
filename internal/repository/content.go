package repository

import (
	"context"
	"errors"
	"time"

	"devfolio/internal/domain"
)

// ErrUserExists is returned when a username is already taken.
var ErrUserExists = errors.New("user already exists")

// DevLogRepository persists dev log posts.
type DevLogRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.DevLog) error
	Get(ctx context.Context, id string) (*domain.DevLog, error)
	List(ctx context.Context, filter domain.DevLogFilter) ([]domain.DevLog, error)
	Update(ctx context.Context, id string, patch domain.DevLogPatch, updatedAt time.Time) (*domain.DevLog, error)
	Delete(ctx context.Context, id string) error
	// Increment adds one to field in a single store-level statement and
	// returns the new value. Concurrent calls never lose an update.
	Increment(ctx context.Context, id string, field domain.CounterField) (int64, error)
}

// GameRepository persists uploaded games.
type GameRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, game *domain.Game) error
	Get(ctx context.Context, id string) (*domain.Game, error)
	List(ctx context.Context, category string) ([]domain.Game, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRepository persists gallery projects.
type ProjectRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, project *domain.Project) error
	List(ctx context.Context, category string) ([]domain.Project, error)
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ReferenceLister reports every upload path a repository still points at.
type ReferenceLister interface {
	UploadReferences(ctx context.Context) ([]string, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	DevLogs  DevLogRepository
	Games    GameRepository
	Projects ProjectRepository
	Users    UserRepository

	Ping  func(ctx context.Context) error
	Close func()
}

// Init creates the schema of every repository.
func (s Store) Init(ctx context.Context) error {
	for _, r := range []interface{ Init(context.Context) error }{s.DevLogs, s.Games, s.Projects, s.Users} {
		if err := r.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// References gathers upload references from every repository that tracks them.
func (s Store) References(ctx context.Context) ([]string, error) {
	var refs []string
	for _, r := range []any{s.DevLogs, s.Games, s.Projects} {
		lister, ok := r.(ReferenceLister)
		if !ok {
			continue
		}
		got, err := lister.UploadReferences(ctx)
		if err != nil {
			return nil, err
		}
		refs = append(refs, got...)
	}
	return refs, nil
}
