package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := NotFound("dev log", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestValidationErrorOrNil(t *testing.T) {
	var ve ValidationError
	assert.NoError(t, ve.OrNil())

	ve.Add("title", "is required")
	ve.Add("content", "is required")
	err := ve.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: title: is required; content: is required", err.Error())
}

func TestUpstreamKeepsClassifiedErrors(t *testing.T) {
	nf := NotFound("game", "x")
	assert.Same(t, nf, Upstream("get game", nf))

	raw := errors.New("connection refused")
	wrapped := Upstream("list games", raw)
	var ue *UpstreamError
	require.True(t, errors.As(wrapped, &ue))
	assert.Equal(t, "list games", ue.Op)
	assert.ErrorIs(t, wrapped, raw)

	again := Upstream("outer", fmt.Errorf("ctx: %w", wrapped))
	_, rewrapped := again.(*UpstreamError)
	assert.False(t, rewrapped)
	assert.ErrorIs(t, again, raw)

	assert.NoError(t, Upstream("noop", nil))
}

func TestNormalizeCategory(t *testing.T) {
	for _, sentinel := range []string{"", AllCategories, "전체", "all"} {
		assert.Equal(t, "", NormalizeCategory(sentinel), sentinel)
	}
	assert.Equal(t, "디버깅", DevLogFilter{Category: "디버깅"}.CategoryFilter())
}

func TestDevLogPatchEmpty(t *testing.T) {
	assert.True(t, DevLogPatch{}.Empty())
	title := "new"
	assert.False(t, DevLogPatch{Title: &title}.Empty())
}
