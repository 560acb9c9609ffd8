package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoResult(t *testing.T) {
	t.Run("known provider has realistic shape", func(t *testing.T) {
		result := DemoResult("openai")

		assert.Greater(t, result.TotalSpend, 0.0)
		assert.Greater(t, result.Requests, int64(0))
		assert.Greater(t, result.InputTokens, int64(0))
		assert.Greater(t, result.OutputTokens, int64(0))
		require.NotNil(t, result.Limit)
		assert.InDelta(t, 120, *result.Limit, 1e-9)
		assert.NotEmpty(t, result.Models)
	})

	t.Run("daily spend covers elapsed days of the month", func(t *testing.T) {
		result := DemoResult("deepseek")
		assert.Len(t, result.DailySpend, time.Now().Day())
		for _, v := range result.DailySpend {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			result := DemoResult("openai")
			assert.GreaterOrEqual(t, result.TotalSpend, 47.83*0.9-0.01)
			assert.LessOrEqual(t, result.TotalSpend, 47.83*1.1+0.01)
		}
	})

	t.Run("provider without plan limit has nil limit", func(t *testing.T) {
		result := DemoResult("minimax")
		assert.Nil(t, result.Limit)
		assert.Len(t, result.Models, 3)
	})

	t.Run("unknown provider yields an empty result", func(t *testing.T) {
		result := DemoResult("nope")
		assert.Zero(t, result.TotalSpend)
		assert.NotNil(t, result.Models)
		assert.Empty(t, result.Models)
	})
}
