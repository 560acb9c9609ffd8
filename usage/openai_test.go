package usage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBucketCompletions = `{
	"data": [
		{"results": [{"model": "x", "num_model_requests": 10, "input_tokens": 1000, "output_tokens": 500, "input_token_cost": 200, "output_token_cost": 100}]},
		{"results": [{"model": "x", "num_model_requests": 5, "input_tokens": 500, "output_tokens": 250, "input_token_cost": 100, "output_token_cost": 50}]}
	]
}`

// openAIUpstream fakes both organization endpoints. costsBody == "" means the
// costs endpoint answers 500.
func openAIUpstream(t *testing.T, completionsBody, costsBody string) (*httptest.Server, *int) {
	t.Helper()
	usageCalls := new(int)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/organization/usage/completions", func(w http.ResponseWriter, r *http.Request) {
		*usageCalls++
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("start_time"))
		assert.NotEmpty(t, r.URL.Query().Get("end_time"))
		assert.Equal(t, "model", r.URL.Query().Get("group_by"))
		w.Write([]byte(completionsBody))
	})
	mux.HandleFunc("/v1/organization/costs", func(w http.ResponseWriter, r *http.Request) {
		if costsBody == "" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(costsBody))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, usageCalls
}

func TestOpenAIAdapter(t *testing.T) {
	t.Run("merges buckets by model and sums cents to dollars", func(t *testing.T) {
		srv, _ := openAIUpstream(t, twoBucketCompletions, "")
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)

		require.Len(t, result.Models, 1)
		assert.Equal(t, "x", result.Models[0].Name)
		assert.Equal(t, int64(15), result.Models[0].Requests)
		assert.InDelta(t, 4.50, result.Models[0].Cost, 1e-9)

		assert.InDelta(t, 4.50, result.TotalSpend, 1e-9)
		assert.Equal(t, int64(15), result.Requests)
		assert.Equal(t, int64(1500), result.InputTokens)
		assert.Equal(t, int64(750), result.OutputTokens)
	})

	t.Run("prefers non-zero cost endpoint aggregate", func(t *testing.T) {
		costs := `{"data": [{"results": [{"amount": {"value": 700}}, {"amount": {"value": 300}}]}]}`
		srv, _ := openAIUpstream(t, twoBucketCompletions, costs)
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)

		assert.InDelta(t, 10.00, result.TotalSpend, 1e-9, "aggregate wins over model sum")
		assert.InDelta(t, 4.50, result.Models[0].Cost, 1e-9, "model rows keep their own cost")
	})

	t.Run("zero cost endpoint total falls back to model sum", func(t *testing.T) {
		costs := `{"data": [{"results": [{"amount": {"value": 0}}]}]}`
		srv, _ := openAIUpstream(t, twoBucketCompletions, costs)
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)
		assert.InDelta(t, 4.50, result.TotalSpend, 1e-9)
	})

	t.Run("cost endpoint failure degrades silently", func(t *testing.T) {
		srv, _ := openAIUpstream(t, twoBucketCompletions, "")
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)
		assert.InDelta(t, 4.50, result.TotalSpend, 1e-9)
	})

	t.Run("same fixture yields the same result", func(t *testing.T) {
		srv, _ := openAIUpstream(t, twoBucketCompletions, "")
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		first, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)
		second, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("models sorted by cost descending", func(t *testing.T) {
		body := `{"data": [{"results": [
			{"model": "cheap", "num_model_requests": 1, "input_token_cost": 10, "output_token_cost": 0},
			{"model": "pricey", "num_model_requests": 1, "input_token_cost": 500, "output_token_cost": 0},
			{"model": "mid", "num_model_requests": 1, "input_token_cost": 100, "output_token_cost": 0}
		]}]}`
		srv, _ := openAIUpstream(t, body, "")
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)

		var names []string
		for _, m := range result.Models {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"pricey", "mid", "cheap"}, names)
	})

	t.Run("falls back to snapshot_id then unknown", func(t *testing.T) {
		body := `{"data": [{"results": [
			{"snapshot_id": "gpt-4o-2024", "num_model_requests": 2},
			{"num_model_requests": 3}
		]}]}`
		srv, _ := openAIUpstream(t, body, "")
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)

		require.Len(t, result.Models, 2)
		names := []string{result.Models[0].Name, result.Models[1].Name}
		assert.Contains(t, names, "gpt-4o-2024")
		assert.Contains(t, names, "unknown")
	})

	t.Run("tolerates missing optional fields", func(t *testing.T) {
		srv, _ := openAIUpstream(t, `{}`, "")
		adapter := &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}

		result, err := adapter.Fetch(context.Background(), "sk-test")
		require.NoError(t, err)
		assert.Zero(t, result.TotalSpend)
		assert.Zero(t, result.Requests)
		assert.Empty(t, result.Models)
	})
}

func TestOpenAIAdapterErrors(t *testing.T) {
	errorUpstream := func(status int, body string) *OpenAIAdapter {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, body, status)
		}))
		t.Cleanup(srv.Close)
		return &OpenAIAdapter{BaseURL: srv.URL, HTTP: srv.Client()}
	}

	t.Run("401 is an invalid credential", func(t *testing.T) {
		_, err := errorUpstream(http.StatusUnauthorized, "nope").Fetch(context.Background(), "bad")
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindInvalidCredential, fe.Kind)
	})

	t.Run("403 names the required scope", func(t *testing.T) {
		_, err := errorUpstream(http.StatusForbidden, "denied").Fetch(context.Background(), "sk-limited")
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindInsufficientScope, fe.Kind)
		assert.Contains(t, fe.Message, "api.usage.read")
	})

	t.Run("other statuses carry status and body excerpt", func(t *testing.T) {
		_, err := errorUpstream(http.StatusServiceUnavailable, "server melted").Fetch(context.Background(), "sk-test")
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindUpstream, fe.Kind)
		assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
		assert.Contains(t, fe.Message, "503")
		assert.Contains(t, fe.Message, "server melted")
	})
}
