package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devfolio/internal/domain"
)

func sampleDevLog() domain.DevLog {
	img := "/uploads/a.png"
	ts := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	return domain.DevLog{
		ID:        "id-1",
		Title:     "Shader notes",
		Content:   "URP custom pass",
		Category:  "Unity 개발",
		Tags:      []string{"unity", "urp"},
		ImageURL:  &img,
		Views:     7,
		CreatedAt: ts,
		UpdatedAt: ts.Add(time.Hour),
	}
}

func TestDevLogUsesSnakeCase(t *testing.T) {
	raw, err := json.Marshal(FromDevLog(sampleDevLog()))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"image_url", "created_at", "updated_at"} {
		assert.Contains(t, fields, key)
	}
	for _, key := range []string{"imageUrl", "createdAt", "updatedAt"} {
		assert.NotContains(t, fields, key)
	}
}

func TestBlogPostUsesCamelCase(t *testing.T) {
	raw, err := json.Marshal(FromBlogPost(sampleDevLog()))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"imageUrl", "createdAt", "updatedAt"} {
		assert.Contains(t, fields, key)
	}
}

func TestDevLogWireRoundTrip(t *testing.T) {
	original := sampleDevLog()

	raw, err := json.Marshal(FromDevLog(original))
	require.NoError(t, err)

	var decoded DevLog
	require.NoError(t, json.Unmarshal(raw, &decoded))
	got := decoded.Domain()

	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Tags, got.Tags)
	assert.Equal(t, *original.ImageURL, *got.ImageURL)
	assert.Equal(t, original.Views, got.Views)
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, original.UpdatedAt.Equal(got.UpdatedAt))
}

func TestDevLogUpdateDistinguishesAbsentFields(t *testing.T) {
	var req DevLogUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t2","tags":["a"]}`), &req))

	patch := req.Patch()
	require.NotNil(t, patch.Title)
	assert.Equal(t, "t2", *patch.Title)
	require.NotNil(t, patch.Tags)
	assert.Equal(t, []string{"a"}, *patch.Tags)
	assert.Nil(t, patch.Content)
	assert.Nil(t, patch.Category)
	assert.Nil(t, patch.ImageURL)
}
