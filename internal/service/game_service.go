package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

// GameService manages the game gallery and the build files behind it.
type GameService interface {
	Create(ctx context.Context, in domain.GameInput, build *Upload) (*domain.Game, error)
	List(ctx context.Context, category string) ([]domain.Game, error)
	// Delete removes the record and then its build file. File removal
	// failures do not fail the call; they come back as warnings.
	Delete(ctx context.Context, id string) ([]string, error)
}

type gameService struct {
	games   repository.GameRepository
	uploads UploadService
	logger  logrus.FieldLogger
}

func NewGameService(games repository.GameRepository, uploads UploadService, logger logrus.FieldLogger) GameService {
	return &gameService{
		games:   games,
		uploads: uploads,
		logger:  logger,
	}
}

func (s *gameService) Create(ctx context.Context, in domain.GameInput, build *Upload) (*domain.Game, error) {
	verr := &domain.ValidationError{}
	requireText(verr, "title", in.Title)
	requireText(verr, "description", in.Description)
	requireText(verr, "category", in.Category)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	game := &domain.Game{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		ThumbnailURL: optional(in.ThumbnailURL),
		CreatedAt:    now(),
	}

	if build != nil {
		stored, err := s.uploads.Store(ctx, *build)
		if err != nil {
			return nil, err
		}
		game.BuildPath = &stored.Path
	}

	if err := s.games.Create(ctx, game); err != nil {
		if game.BuildPath != nil {
			if rmErr := s.uploads.Remove(context.WithoutCancel(ctx), *game.BuildPath); rmErr != nil {
				s.logger.WithError(rmErr).WithField("path", *game.BuildPath).Warn("remove orphaned build")
			}
		}
		return nil, domain.Upstream("create game", err)
	}
	return game, nil
}

func (s *gameService) List(ctx context.Context, category string) ([]domain.Game, error) {
	games, err := s.games.List(ctx, category)
	if err != nil {
		return nil, domain.Upstream("list games", err)
	}
	return games, nil
}

func (s *gameService) Delete(ctx context.Context, id string) ([]string, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, domain.Upstream("get game", err)
	}
	if err := s.games.Delete(ctx, id); err != nil {
		return nil, domain.Upstream("delete game", err)
	}
	return s.cleanupFiles(ctx, game), nil
}

// cleanupFiles removes the build, which belongs to the game alone. The
// thumbnail may be shared with posts or projects and is left to the janitor.
func (s *gameService) cleanupFiles(ctx context.Context, game *domain.Game) []string {
	if game.BuildPath == nil {
		return nil
	}
	if err := s.uploads.Remove(ctx, *game.BuildPath); err != nil {
		return []string{fmt.Sprintf("failed to remove %s: %v", *game.BuildPath, err)}
	}
	return nil
}
