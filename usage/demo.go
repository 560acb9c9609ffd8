package usage

import (
	"math"
	"math/rand/v2"
	"time"
)

// demoProfile is the deterministic shape of a provider's demo data. Magnitudes
// get a random jitter on every call so demo mode feels live.
type demoProfile struct {
	spend    float64
	limit    float64 // 0 means no limit
	requests int64
	input    int64
	output   int64
	daily    float64 // average daily spend
	models   []ModelUsage
}

var demoProfiles = map[string]demoProfile{
	"openai": {
		spend: 47.83, limit: 120, requests: 12_847,
		input: 18_432_100, output: 6_291_400, daily: 3.2,
		models: []ModelUsage{
			{Name: "gpt-4o", Cost: 22.14, Requests: 4_230},
			{Name: "o3-mini", Cost: 11.47, Requests: 1_892},
			{Name: "gpt-4o-mini", Cost: 8.91, Requests: 5_120},
			{Name: "gpt-4-turbo", Cost: 3.82, Requests: 980},
			{Name: "dall-e-3", Cost: 1.49, Requests: 625},
		},
	},
	"deepseek": {
		spend: 8.92, limit: 50, requests: 15_230,
		input: 32_100_000, output: 12_400_000, daily: 0.6,
		models: []ModelUsage{
			{Name: "deepseek-reasoner", Cost: 5.71, Requests: 6_330},
			{Name: "deepseek-chat", Cost: 3.21, Requests: 8_900},
		},
	},
	"minimax": {
		spend: 15.34, requests: 6_840,
		input: 14_500_000, output: 5_800_000, daily: 1.1,
		models: []ModelUsage{
			{Name: "MiniMax-M2.5", Cost: 8.42, Requests: 3_210},
			{Name: "MiniMax-M2.1", Cost: 4.63, Requests: 2_450},
			{Name: "MiniMax-M2", Cost: 2.29, Requests: 1_180},
		},
	},
	"anthropic": {
		spend: 63.21, limit: 100, requests: 8_432,
		input: 24_100_000, output: 9_870_000, daily: 4.2,
		models: []ModelUsage{
			{Name: "claude-opus-4", Cost: 31.50, Requests: 1_240},
			{Name: "claude-sonnet-4", Cost: 18.73, Requests: 3_890},
			{Name: "claude-haiku-3.5", Cost: 8.44, Requests: 2_870},
		},
	},
	"google": {
		spend: 12.45, requests: 5_672,
		input: 9_800_000, output: 3_200_000, daily: 0.8,
		models: []ModelUsage{
			{Name: "gemini-2.0-pro", Cost: 5.87, Requests: 1_340},
			{Name: "gemini-2.0-flash", Cost: 4.21, Requests: 2_890},
			{Name: "gemini-1.5-pro", Cost: 1.25, Requests: 462},
			{Name: "gemini-1.5-flash", Cost: 1.12, Requests: 980},
		},
	},
}

// DemoResult generates mock usage data for demo mode: fixed shape per
// provider, randomized magnitude. Unknown providers get an empty result.
func DemoResult(providerID string) *Result {
	p, ok := demoProfiles[providerID]
	if !ok {
		return &Result{Models: []ModelUsage{}}
	}

	jitter := 0.9 + rand.Float64()*0.2
	day := time.Now().Day()

	result := &Result{
		TotalSpend:   round2(p.spend * jitter),
		Requests:     int64(float64(p.requests) * jitter),
		InputTokens:  int64(float64(p.input) * jitter),
		OutputTokens: int64(float64(p.output) * jitter),
		DailySpend:   demoDailySpend(p.daily*jitter, day),
	}
	if p.limit > 0 {
		limit := p.limit
		result.Limit = &limit
	}
	for _, m := range p.models {
		result.Models = append(result.Models, ModelUsage{
			Name:     m.Name,
			Cost:     round2(m.Cost * jitter),
			Requests: int64(float64(m.Requests) * jitter),
		})
	}
	return result
}

// demoDailySpend produces one value per elapsed day of the current month,
// varying around the given average.
func demoDailySpend(avg float64, days int) []float64 {
	out := make([]float64, days)
	for i := range out {
		out[i] = round2(avg * (0.4 + rand.Float64()*1.2))
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
