package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

const openAIBaseURL = "https://api.openai.com"

// OpenAIAdapter reads the organization usage and costs endpoints. The costs
// endpoint is optional: when it is unavailable or returns a zero total, the
// total spend falls back to the sum of per-model costs.
type OpenAIAdapter struct {
	BaseURL string
	HTTP    *http.Client
	Now     func() time.Time // defaults to time.Now
}

// completionsResponse is the per-model usage breakdown. Cost fields are in
// minor currency units (cents).
type completionsResponse struct {
	Data []struct {
		Results []completionsResult `json:"results"`
	} `json:"data"`
}

type completionsResult struct {
	Model           string  `json:"model"`
	SnapshotID      string  `json:"snapshot_id"`
	NumRequests     int64   `json:"num_model_requests"`
	InputTokens     int64   `json:"input_tokens"`
	OutputTokens    int64   `json:"output_tokens"`
	InputTokenCost  float64 `json:"input_token_cost"`
	OutputTokenCost float64 `json:"output_token_cost"`
}

type costsResponse struct {
	Data []struct {
		Results []struct {
			Amount struct {
				Value float64 `json:"value"`
			} `json:"amount"`
		} `json:"results"`
	} `json:"data"`
}

func (a *OpenAIAdapter) base() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return openAIBaseURL
}

func (a *OpenAIAdapter) client() *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return defaultHTTPClient()
}

func (a *OpenAIAdapter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *OpenAIAdapter) Fetch(ctx context.Context, key string) (*Result, error) {
	start, end := monthWindow(a.now())

	completions, err := a.fetchCompletions(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	// The costs endpoint degrades silently: any failure leaves the
	// aggregate at zero and the per-model sum takes over.
	aggregate := a.fetchCostTotal(ctx, key, start, end)

	merged := mergeCompletions(completions)

	result := &Result{TotalSpend: aggregate}
	var modelSum float64
	for _, m := range merged {
		result.Requests += m.requests
		result.InputTokens += m.input
		result.OutputTokens += m.output
		modelSum += m.cost
		result.Models = append(result.Models, ModelUsage{
			Name:     m.name,
			Cost:     m.cost,
			Requests: m.requests,
		})
	}
	if aggregate == 0 {
		result.TotalSpend = modelSum
	}

	sort.Slice(result.Models, func(i, j int) bool {
		return result.Models[i].Cost > result.Models[j].Cost
	})

	return result, nil
}

func (a *OpenAIAdapter) fetchCompletions(ctx context.Context, key string, start, end int64) (*completionsResponse, error) {
	url := fmt.Sprintf("%s/v1/organization/usage/completions?start_time=%d&end_time=%d&group_by=model",
		a.base(), start, end)

	resp, err := bearerGet(ctx, a.client(), url, key)
	if err != nil {
		return nil, errf(KindUpstream, "OpenAI request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errf(KindInvalidCredential, "invalid API key")
	case resp.StatusCode == http.StatusForbidden:
		return nil, errf(KindInsufficientScope,
			"key lacks usage permissions: needs api.usage.read scope")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{
			Kind:    KindUpstream,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("OpenAI API %d: %s", resp.StatusCode, bodyExcerpt(resp.Body)),
		}
	}

	var data completionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errf(KindUpstream, "OpenAI response: %v", err)
	}
	return &data, nil
}

// fetchCostTotal returns the summed aggregate cost in dollars, or 0 when the
// endpoint fails or reports nothing.
func (a *OpenAIAdapter) fetchCostTotal(ctx context.Context, key string, start, end int64) float64 {
	url := fmt.Sprintf("%s/v1/organization/costs?start_time=%d&end_time=%d&group_by=line_item",
		a.base(), start, end)

	resp, err := bearerGet(ctx, a.client(), url, key)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0
	}

	var data costsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0
	}

	var total float64
	for _, bucket := range data.Data {
		for _, r := range bucket.Results {
			total += r.Amount.Value / 100 // cents to dollars
		}
	}
	return total
}

type mergedModel struct {
	name     string
	requests int64
	input    int64
	output   int64
	cost     float64
}

// mergeCompletions accumulates completions buckets by model identifier,
// falling back to snapshot_id and then a literal "unknown" bucket when the
// model field is absent.
func mergeCompletions(data *completionsResponse) []*mergedModel {
	byName := make(map[string]*mergedModel)
	var order []*mergedModel

	for _, bucket := range data.Data {
		for _, r := range bucket.Results {
			name := r.Model
			if name == "" {
				name = r.SnapshotID
			}
			if name == "" {
				name = "unknown"
			}

			m, ok := byName[name]
			if !ok {
				m = &mergedModel{name: name}
				byName[name] = m
				order = append(order, m)
			}
			m.requests += r.NumRequests
			m.input += r.InputTokens
			m.output += r.OutputTokens
			m.cost += (r.InputTokenCost + r.OutputTokenCost) / 100
		}
	}

	return order
}
