package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drjarvisw-bit/usageclaw/provider"
)

func TestConnectedProviders(t *testing.T) {
	reg := provider.NewRegistry()

	t.Run("only keyed active providers", func(t *testing.T) {
		ids := connectedProviders(reg, map[string]string{
			"openai":    "sk-a",
			"minimax":   "sk-b",
			"anthropic": "sk-c", // coming-soon, no adapter
		}, false)
		assert.Equal(t, []string{"openai", "minimax"}, ids)
	})

	t.Run("demo mode connects every active provider", func(t *testing.T) {
		ids := connectedProviders(reg, nil, true)
		assert.Equal(t, []string{"openai", "deepseek", "minimax"}, ids)
	})

	t.Run("no keys means no providers", func(t *testing.T) {
		assert.Empty(t, connectedProviders(reg, nil, false))
	})
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk-p****cdef", maskKey("sk-proj-abcdef"))
	assert.Equal(t, "********", maskKey("12345678"))
	assert.Equal(t, "***", maskKey("abc"))
}
