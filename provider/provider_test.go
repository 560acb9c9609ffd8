package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	t.Run("all expected providers exist", func(t *testing.T) {
		expected := []string{
			"openai", "deepseek", "minimax", "anthropic", "google",
			"qwen", "zhipu", "together", "groq",
		}
		for _, id := range expected {
			_, ok := reg.Get(id)
			assert.True(t, ok, "provider %q should exist", id)
		}
	})

	t.Run("get returns the full descriptor", func(t *testing.T) {
		d, ok := reg.Get("openai")
		require.True(t, ok)
		assert.Equal(t, "OpenAI", d.Name)
		assert.Equal(t, StatusActive, d.Status)
		assert.NotEmpty(t, d.Color)
		assert.NotEmpty(t, d.Icon)
	})

	t.Run("unknown id returns false", func(t *testing.T) {
		_, ok := reg.Get("foo")
		assert.False(t, ok)
	})

	t.Run("active subset is exactly the adapter-backed providers", func(t *testing.T) {
		var ids []string
		for _, d := range reg.Active() {
			ids = append(ids, d.ID)
		}
		assert.Exactly(t, []string{"openai", "deepseek", "minimax"}, ids)
	})

	t.Run("active providers have key placeholders", func(t *testing.T) {
		for _, d := range reg.Active() {
			assert.NotEmpty(t, d.KeyPlaceholder, "provider %q needs a key placeholder", d.ID)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, d := range reg.All() {
			assert.False(t, seen[d.ID], "duplicate provider id %q", d.ID)
			seen[d.ID] = true
		}
	})

	t.Run("all providers have descriptions", func(t *testing.T) {
		for _, d := range reg.All() {
			assert.NotEmpty(t, d.Description, "provider %q needs a description", d.ID)
		}
	})
}
