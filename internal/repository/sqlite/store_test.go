package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func seedDevLog(t *testing.T, repo repository.DevLogRepository, title, content, category string, tags []string, at time.Time) domain.DevLog {
	t.Helper()
	post := domain.DevLog{
		ID:        fmt.Sprintf("post-%d", at.UnixNano()),
		Title:     title,
		Content:   content,
		Category:  category,
		Tags:      tags,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, repo.Create(context.Background(), &post))
	return post
}

func TestInitIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Init(context.Background()))
	require.NoError(t, store.Ping(context.Background()))
}

func TestDevLogCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	img := "/uploads/cover.png"
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)

	post := domain.DevLog{
		ID:        "a1",
		Title:     "Pathfinding",
		Content:   "A* on a navmesh",
		Category:  "Unity 개발",
		Tags:      []string{"ai", "navmesh"},
		ImageURL:  &img,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	require.NoError(t, store.DevLogs.Create(ctx, &post))

	got, err := store.DevLogs.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Content, got.Content)
	assert.Equal(t, post.Category, got.Category)
	assert.Equal(t, post.Tags, got.Tags)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, img, *got.ImageURL)
	assert.Equal(t, int64(0), got.Views)
	assert.True(t, ts.Equal(got.CreatedAt))
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestDevLogGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.DevLogs.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDevLogListFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	first := seedDevLog(t, store.DevLogs, "Level design", "Blocking out the first stage", "게임 기획", []string{"design"}, base)
	second := seedDevLog(t, store.DevLogs, "GC spikes", "Profiling Unity allocations", "최적화", []string{"unity", "profiling"}, base.Add(time.Hour))
	third := seedDevLog(t, store.DevLogs, "Null refs", "Fixing a crash in the UNITY editor", "디버깅", nil, base.Add(2*time.Hour))

	t.Run("sentinel returns everything newest first", func(t *testing.T) {
		posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Category: domain.AllCategories})
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
	})

	t.Run("category is exact", func(t *testing.T) {
		posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Category: "최적화"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, second.ID, posts[0].ID)

		posts, err = store.DevLogs.List(ctx, domain.DevLogFilter{Category: "최적"})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("tags intersect", func(t *testing.T) {
		posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Tags: []string{"design", "missing"}})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, first.ID, posts[0].ID)
	})

	t.Run("search is case insensitive over title or content", func(t *testing.T) {
		posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Search: "unity"})
		require.NoError(t, err)
		require.Len(t, posts, 2)

		posts, err = store.DevLogs.List(ctx, domain.DevLogFilter{Search: "gc SPIKES"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, second.ID, posts[0].ID)

		posts, err = store.DevLogs.List(ctx, domain.DevLogFilter{Search: "shader"})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("filters combine", func(t *testing.T) {
		posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Category: "디버깅", Search: "unity"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, third.ID, posts[0].ID)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("search folds non-ascii case", func(t *testing.T) {
		umlaut := seedDevLog(t, store.DevLogs, "ÜBER Shader", "notes", "기타", nil, base.Add(3*time.Hour))
		cyrillic := seedDevLog(t, store.DevLogs, "Localization", "ПРИВЕТ мир", "기타", nil, base.Add(4*time.Hour))

		for search, want := range map[string]string{
			"über":   umlaut.ID,
			"ÜBER":   umlaut.ID,
			"привет": cyrillic.ID,
			"МИР":    cyrillic.ID,
		} {
			posts, err := store.DevLogs.List(ctx, domain.DevLogFilter{Search: search})
			require.NoError(t, err)
			require.Len(t, posts, 1, search)
			assert.Equal(t, want, posts[0].ID, search)
		}
	})
}

func TestDevLogUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	post := seedDevLog(t, store.DevLogs, "Old", "Body", "디버깅", []string{"x"}, base)

	title := "New"
	tags := []string{"y", "z"}
	later := base.Add(time.Minute)
	updated, err := store.DevLogs.Update(ctx, post.ID, domain.DevLogPatch{Title: &title, Tags: &tags}, later)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Body", updated.Content)
	assert.Equal(t, tags, updated.Tags)
	assert.True(t, later.Equal(updated.UpdatedAt))
	assert.True(t, base.Equal(updated.CreatedAt))

	_, err = store.DevLogs.Update(ctx, "missing", domain.DevLogPatch{Title: &title}, later)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDevLogDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	post := seedDevLog(t, store.DevLogs, "t", "c", "디버깅", nil, time.Now().UTC())

	require.NoError(t, store.DevLogs.Delete(ctx, post.ID))
	assert.ErrorIs(t, store.DevLogs.Delete(ctx, post.ID), domain.ErrNotFound)
}

func TestDevLogIncrementConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	post := seedDevLog(t, store.DevLogs, "t", "c", "디버깅", nil, time.Now().UTC())

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.DevLogs.Increment(ctx, post.ID, domain.CounterViews); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.DevLogs.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Views)

	_, err = store.DevLogs.Increment(ctx, "missing", domain.CounterViews)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.DevLogs.Increment(ctx, post.ID, domain.CounterField("title"))
	assert.Error(t, err)
}

func TestGameRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	build := "uploads/build.zip"

	game := domain.Game{ID: "g1", Title: "Runner", Description: "Endless", Category: "3D", BuildPath: &build, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Games.Create(ctx, &game))

	games, err := store.Games.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.NotNil(t, games[0].BuildPath)
	assert.Equal(t, build, *games[0].BuildPath)
	assert.Nil(t, games[0].ThumbnailURL)

	games, err = store.Games.List(ctx, "2D")
	require.NoError(t, err)
	assert.Empty(t, games)

	require.NoError(t, store.Games.Delete(ctx, "g1"))
	assert.ErrorIs(t, store.Games.Delete(ctx, "g1"), domain.ErrNotFound)
	_, err = store.Games.Get(ctx, "g1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	platform := "PC"

	project := domain.Project{
		ID:           "p1",
		Title:        "Dungeon",
		Description:  "Roguelike",
		Category:     "RPG",
		Technologies: []string{"Unity", "C#"},
		Platform:     &platform,
		Date:         "2024.03 - 2024.08",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Projects.Create(ctx, &project))

	projects, err := store.Projects.List(ctx, "전체")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.Technologies, projects[0].Technologies)
	assert.Equal(t, "PC", *projects[0].Platform)
	assert.Equal(t, project.Date, projects[0].Date)
}

func TestUserRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := domain.User{ID: "u1", Username: "admin", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Users.Create(ctx, &user))

	dup := domain.User{ID: "u2", Username: "admin", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, store.Users.Create(ctx, &dup), repository.ErrUserExists)

	got, err := store.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = store.Users.GetByID(ctx, "u9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadReferences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	img := "/uploads/a.png"
	build := "uploads/b.zip"
	thumb := "/uploads/c.png"

	post := domain.DevLog{ID: "d", Title: "t", Content: "c", Category: "x", ImageURL: &img, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	require.NoError(t, store.DevLogs.Create(ctx, &post))
	game := domain.Game{ID: "g", Title: "t", Description: "d", Category: "x", BuildPath: &build, ThumbnailURL: &thumb, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Games.Create(ctx, &game))

	refs, err := store.References(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{img, build, thumb}, refs)
}
