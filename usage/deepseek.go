package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const deepSeekBaseURL = "https://api.deepseek.com"

// DeepSeekAdapter queries the account balance endpoint. DeepSeek exposes no
// consumption detail, only remaining balance, so the result carries zeroed
// usage fields and a formatted balance summary in Note.
type DeepSeekAdapter struct {
	BaseURL string
	HTTP    *http.Client
}

type balanceResponse struct {
	BalanceInfos []struct {
		Currency        string `json:"currency"`
		TotalBalance    string `json:"total_balance"`
		GrantedBalance  string `json:"granted_balance"`
		ToppedUpBalance string `json:"topped_up_balance"`
	} `json:"balance_infos"`
}

func (a *DeepSeekAdapter) base() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return deepSeekBaseURL
}

func (a *DeepSeekAdapter) client() *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return defaultHTTPClient()
}

func (a *DeepSeekAdapter) Fetch(ctx context.Context, key string) (*Result, error) {
	resp, err := bearerGet(ctx, a.client(), a.base()+"/user/balance", key)
	if err != nil {
		return nil, errf(KindUpstream, "DeepSeek request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errf(KindInvalidCredential, "invalid API key")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{
			Kind:    KindUpstream,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("DeepSeek API %d: %s", resp.StatusCode, bodyExcerpt(resp.Body)),
		}
	}

	var data balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errf(KindUpstream, "DeepSeek response: %v", err)
	}

	var total, granted, topped float64
	currency := "CNY"
	if len(data.BalanceInfos) > 0 {
		info := data.BalanceInfos[0]
		total = parseAmount(info.TotalBalance)
		granted = parseAmount(info.GrantedBalance)
		topped = parseAmount(info.ToppedUpBalance)
		if info.Currency != "" {
			currency = info.Currency
		}
	}

	return &Result{
		Models: []ModelUsage{},
		Note: fmt.Sprintf("Balance: %s %.2f (granted: %.2f, topped up: %.2f)",
			currency, total, granted, topped),
	}, nil
}

// parseAmount converts a decimal string to a float, defaulting to 0 on
// missing or malformed input.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
