package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devfolio/internal/domain"
	"devfolio/internal/repository"
	"devfolio/internal/repository/sqlite"
	"devfolio/internal/storage"
)

func newStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func newUploads(t *testing.T, max int64) (UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	disk, err := storage.NewDiskStore(dir)
	require.NoError(t, err)
	return NewUploadService(disk, max, "/uploads"), dir
}

func strPtr(s string) *string { return &s }

func TestDevLogCreate(t *testing.T) {
	svc := NewDevLogService(newStore(t).DevLogs)
	ctx := context.Background()

	post, err := svc.Create(ctx, domain.DevLogInput{
		Title:    "Camera shake",
		Content:  "Cinemachine impulse",
		Category: "Unity 개발",
		Tags:     []string{" camera ", "camera", "juice"},
		ImageURL: strPtr("  "),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, int64(0), post.Views)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Equal(t, []string{"camera", "camera", "juice"}, post.Tags)
	assert.Nil(t, post.ImageURL)

	other, err := svc.Create(ctx, domain.DevLogInput{Title: "t", Content: "c", Category: "디버깅"})
	require.NoError(t, err)
	assert.NotEqual(t, post.ID, other.ID)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Tags, got.Tags)
	assert.True(t, post.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestDevLogCreateValidation(t *testing.T) {
	store := newStore(t)
	svc := NewDevLogService(store.DevLogs)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.DevLogInput{Title: "  ", Category: "디버깅"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"title", "content"}, fields)

	posts, err := svc.List(ctx, domain.DevLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDevLogUpdate(t *testing.T) {
	svc := NewDevLogService(newStore(t).DevLogs).(*devLogService)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	post, err := svc.Create(ctx, domain.DevLogInput{Title: "t", Content: "c", Category: "디버깅", Tags: []string{"a"}})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(time.Hour) }
	updated, err := svc.Update(ctx, post.ID, domain.DevLogPatch{Content: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Content)
	assert.Equal(t, "t", updated.Title)
	assert.Equal(t, []string{"a"}, updated.Tags)
	assert.True(t, base.Equal(updated.CreatedAt))
	assert.True(t, base.Add(time.Hour).Equal(updated.UpdatedAt))

	_, err = svc.Update(ctx, post.ID, domain.DevLogPatch{Title: strPtr("")})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, "missing", domain.DevLogPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDevLogDeleteAndIncrement(t *testing.T) {
	svc := NewDevLogService(newStore(t).DevLogs)
	ctx := context.Background()

	post, err := svc.Create(ctx, domain.DevLogInput{Title: "t", Content: "c", Category: "디버깅"})
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IncrementViews(ctx, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	views, err := svc.IncrementViews(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), views)

	require.NoError(t, svc.Delete(ctx, post.ID))
	assert.ErrorIs(t, svc.Delete(ctx, post.ID), domain.ErrNotFound)
	_, err = svc.IncrementViews(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadStore(t *testing.T) {
	uploads, dir := newUploads(t, 16)
	ctx := context.Background()

	stored, err := uploads.Store(ctx, Upload{OriginalName: "Hero.PNG", Size: 4, Body: strings.NewReader("png!")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.Filename, ".png"))
	assert.Equal(t, "Hero.PNG", stored.OriginalName)
	assert.Equal(t, "/uploads/"+stored.Filename, stored.Path)

	_, err = os.Stat(filepath.Join(dir, stored.Filename))
	require.NoError(t, err)

	require.NoError(t, uploads.Remove(ctx, stored.Path))
	_, err = os.Stat(filepath.Join(dir, stored.Filename))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, uploads.Remove(ctx, "https://elsewhere.example/x.png"))
}

func TestUploadRejectsOversizeBeforeWriting(t *testing.T) {
	uploads, dir := newUploads(t, 8)

	_, err := uploads.Store(context.Background(), Upload{OriginalName: "big.bin", Size: 9, Body: strings.NewReader("123456789")})
	var serr *domain.SizeLimitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, int64(8), serr.Limit)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadOfUnknownSizeIsCapped(t *testing.T) {
	uploads, dir := newUploads(t, 16)
	ctx := context.Background()

	_, err := uploads.Store(ctx, Upload{OriginalName: "stream.bin", Body: strings.NewReader(strings.Repeat("x", 100))})
	var serr *domain.SizeLimitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, int64(16), serr.Limit)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	stored, err := uploads.Store(ctx, Upload{OriginalName: "exact.bin", Body: strings.NewReader(strings.Repeat("y", 16))})
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(dir, stored.Filename))
	require.NoError(t, err)
	assert.Equal(t, int64(16), info.Size())
}

func TestUploadMissingFile(t *testing.T) {
	uploads, _ := newUploads(t, 8)
	_, err := uploads.Store(context.Background(), Upload{})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".zip", extension("Build.ZIP"))
	assert.Equal(t, "", extension("noext"))
	assert.Equal(t, "", extension("weird.p/g"))
	assert.Equal(t, "", extension("a.verylongextension"))
}

func TestGameCreateAndDelete(t *testing.T) {
	store := newStore(t)
	uploads, dir := newUploads(t, 1024)
	logger, _ := test.NewNullLogger()
	svc := NewGameService(store.Games, uploads, logger)
	ctx := context.Background()

	game, err := svc.Create(ctx, domain.GameInput{Title: "Runner", Description: "Endless", Category: "3D"},
		&Upload{OriginalName: "build.zip", Size: 3, Body: strings.NewReader("zip")})
	require.NoError(t, err)
	require.NotNil(t, game.BuildPath)

	games, err := svc.List(ctx, "전체")
	require.NoError(t, err)
	require.Len(t, games, 1)

	warnings, err := svc.Delete(ctx, game.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.Delete(ctx, game.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGameDeleteKeepsSharedThumbnail(t *testing.T) {
	store := newStore(t)
	uploads, dir := newUploads(t, 1024)
	logger, _ := test.NewNullLogger()
	svc := NewGameService(store.Games, uploads, logger)
	ctx := context.Background()

	thumb, err := uploads.Store(ctx, Upload{OriginalName: "cover.png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)

	game, err := svc.Create(ctx, domain.GameInput{Title: "Runner", Description: "Endless", Category: "3D", ThumbnailURL: &thumb.Path},
		&Upload{OriginalName: "build.zip", Size: 3, Body: strings.NewReader("zip")})
	require.NoError(t, err)

	warnings, err := svc.Delete(ctx, game.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, thumb.Filename, entries[0].Name())
}

func TestGameCreateValidationSkipsUpload(t *testing.T) {
	uploads, dir := newUploads(t, 1024)
	svc := NewGameService(newStore(t).Games, uploads, logrus.New())

	_, err := svc.Create(context.Background(), domain.GameInput{Title: "x"},
		&Upload{OriginalName: "build.zip", Size: 3, Body: strings.NewReader("zip")})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type failingGames struct{ repository.GameRepository }

func (failingGames) Create(context.Context, *domain.Game) error { return errors.New("db down") }

func TestGameCreateRemovesOrphanedBuild(t *testing.T) {
	uploads, dir := newUploads(t, 1024)
	svc := NewGameService(failingGames{}, uploads, logrus.New())

	_, err := svc.Create(context.Background(), domain.GameInput{Title: "t", Description: "d", Category: "c"},
		&Upload{OriginalName: "build.zip", Size: 3, Body: strings.NewReader("zip")})
	var uerr *domain.UpstreamError
	require.ErrorAs(t, err, &uerr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProjectService(t *testing.T) {
	svc := NewProjectService(newStore(t).Projects)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.ProjectInput{Title: "t"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)

	project, err := svc.Create(ctx, domain.ProjectInput{
		Title:        "Dungeon",
		Description:  "Roguelike",
		Category:     "RPG",
		Technologies: []string{"Unity", "C#"},
		Date:         "2024",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)

	projects, err := svc.List(ctx, "RPG")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.ID, projects[0].ID)
}

type recordingNotifier struct {
	got []domain.ContactMessage
	err error
}

func (n *recordingNotifier) Notify(_ context.Context, msg domain.ContactMessage) error {
	n.got = append(n.got, msg)
	return n.err
}

func TestContactSubmit(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewContactService(notifier)
	ctx := context.Background()

	err := svc.Submit(ctx, domain.ContactMessage{Name: "Kim", Email: "  ", Message: "hi"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)
	assert.Empty(t, notifier.got)

	require.NoError(t, svc.Submit(ctx, domain.ContactMessage{Name: " Kim ", Email: "kim@example.com", Message: "hi"}))
	require.NoError(t, svc.Submit(ctx, domain.ContactMessage{Name: "Lee", Email: "lee at studio", Message: "hi"}))
	require.Len(t, notifier.got, 2)
	assert.Equal(t, "Kim", notifier.got[0].Name)
	assert.Equal(t, "lee at studio", notifier.got[1].Email)

	notifier.err = errors.New("smtp down")
	var uerr *domain.UpstreamError
	assert.ErrorAs(t, svc.Submit(ctx, domain.ContactMessage{Name: "Kim", Email: "kim@example.com", Message: "hi"}), &uerr)
}

func TestUserServiceLoginFlow(t *testing.T) {
	svc := NewUserService(newStore(t).Users, "secret", time.Hour)
	ctx := context.Background()

	_, err := svc.EnsureAdmin(ctx, "admin", "short")
	require.Error(t, err)

	admin, err := svc.EnsureAdmin(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.Empty(t, admin.PasswordHash)

	again, err := svc.EnsureAdmin(ctx, "admin", "another password")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	_, err = svc.Authenticate(ctx, "admin", "another password")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.Authenticate(ctx, "admin", "correct horse")
	require.NoError(t, err)

	token, expires, err := svc.IssueToken(user)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	sub, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, sub)

	_, err = svc.ParseToken(token + "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other := NewUserService(newStore(t).Users, "different", time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
