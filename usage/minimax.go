package usage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const miniMaxBaseURL = "https://www.minimax.io"

// MiniMaxAdapter queries the Coding Plan quota endpoint. Like the balance
// providers, it yields no consumption detail; the raw entitlement payload is
// serialized into Note for display.
type MiniMaxAdapter struct {
	BaseURL string
	HTTP    *http.Client
}

type codingPlanResponse struct {
	Data json.RawMessage `json:"data"`
}

func (a *MiniMaxAdapter) base() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return miniMaxBaseURL
}

func (a *MiniMaxAdapter) client() *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return defaultHTTPClient()
}

func (a *MiniMaxAdapter) Fetch(ctx context.Context, key string) (*Result, error) {
	url := a.base() + "/v1/api/openplatform/coding_plan/remains"
	resp, err := bearerGet(ctx, a.client(), url, key)
	if err != nil {
		return nil, errf(KindUpstream, "MiniMax request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errf(KindInvalidCredential, "invalid API key")
	case resp.StatusCode == http.StatusForbidden:
		return nil, errf(KindMissingEntitlement, "key does not have Coding Plan access")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{
			Kind:    KindUpstream,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("MiniMax API %d: %s", resp.StatusCode, bodyExcerpt(resp.Body)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errf(KindUpstream, "MiniMax response: %v", err)
	}

	var data codingPlanResponse
	payload := raw
	if err := json.Unmarshal(raw, &data); err == nil && len(data.Data) > 0 {
		payload = data.Data
	}

	return &Result{
		Models: []ModelUsage{},
		Note:   "Coding Plan: " + compactJSON(payload),
	}, nil
}

// compactJSON re-encodes raw JSON without whitespace, falling back to the
// input string when it does not parse.
func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
