package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

// DevLogService coordinates dev log operations backed by the record store.
type DevLogService interface {
	Create(ctx context.Context, in domain.DevLogInput) (*domain.DevLog, error)
	Get(ctx context.Context, id string) (*domain.DevLog, error)
	List(ctx context.Context, filter domain.DevLogFilter) ([]domain.DevLog, error)
	Update(ctx context.Context, id string, patch domain.DevLogPatch) (*domain.DevLog, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int64, error)
}

type devLogService struct {
	posts repository.DevLogRepository
	now   func() time.Time
}

func NewDevLogService(posts repository.DevLogRepository) DevLogService {
	return &devLogService{
		posts: posts,
		now:   now,
	}
}

// now truncates to microseconds, the finest resolution both stores keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *devLogService) Create(ctx context.Context, in domain.DevLogInput) (*domain.DevLog, error) {
	verr := &domain.ValidationError{}
	requireText(verr, "title", in.Title)
	requireText(verr, "content", in.Content)
	requireText(verr, "category", in.Category)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	ts := s.now()
	post := &domain.DevLog{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Tags:      trimTags(in.Tags),
		ImageURL:  optional(in.ImageURL),
		Views:     0,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, domain.Upstream("create dev log", err)
	}
	return post, nil
}

func (s *devLogService) Get(ctx context.Context, id string) (*domain.DevLog, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, domain.Upstream("get dev log", err)
	}
	return post, nil
}

func (s *devLogService) List(ctx context.Context, filter domain.DevLogFilter) ([]domain.DevLog, error) {
	filter.Tags = cleanTags(filter.Tags)
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, domain.Upstream("list dev logs", err)
	}
	return posts, nil
}

func (s *devLogService) Update(ctx context.Context, id string, patch domain.DevLogPatch) (*domain.DevLog, error) {
	verr := &domain.ValidationError{}
	if patch.Title != nil {
		requireText(verr, "title", *patch.Title)
	}
	if patch.Content != nil {
		requireText(verr, "content", *patch.Content)
	}
	if patch.Category != nil {
		requireText(verr, "category", *patch.Category)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if patch.Tags != nil {
		tags := trimTags(*patch.Tags)
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}

	post, err := s.posts.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, domain.Upstream("update dev log", err)
	}
	return post, nil
}

func (s *devLogService) Delete(ctx context.Context, id string) error {
	return domain.Upstream("delete dev log", s.posts.Delete(ctx, id))
}

func (s *devLogService) IncrementViews(ctx context.Context, id string) (int64, error) {
	views, err := s.posts.Increment(ctx, id, domain.CounterViews)
	if err != nil {
		return 0, domain.Upstream("increment views", err)
	}
	return views, nil
}

func requireText(verr *domain.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, field+" is required")
	}
}

// trimTags trims each stored tag and otherwise keeps the list as submitted.
func trimTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = strings.TrimSpace(tag)
	}
	return out
}

// cleanTags drops blank and repeated tags from a filter.
func cleanTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// optional maps a blank string pointer to nil.
func optional(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
