package usage

import "fmt"

// ErrorKind classifies why a fetch failed. All kinds are terminal for the
// current attempt; retry only happens on the next scheduled or manual trigger.
type ErrorKind string

const (
	// KindInvalidCredential means the upstream rejected the API key (401).
	KindInvalidCredential ErrorKind = "invalid-credential"
	// KindInsufficientScope means the key is valid but lacks the scope
	// required to read usage data (403 on the OpenAI usage endpoint).
	KindInsufficientScope ErrorKind = "insufficient-scope"
	// KindMissingEntitlement means the key has no access to the queried
	// plan or quota (403 on entitlement-query providers).
	KindMissingEntitlement ErrorKind = "missing-entitlement"
	// KindUpstream covers any other non-2xx upstream response.
	KindUpstream ErrorKind = "upstream-error"
	// KindNotSupported means no adapter exists for the provider.
	KindNotSupported ErrorKind = "not-supported"
)

// FetchError is the only error type adapters return. The Message is
// human-readable and shown verbatim per provider.
type FetchError struct {
	Kind    ErrorKind
	Status  int // upstream HTTP status for KindUpstream, 0 otherwise
	Message string
}

func (e *FetchError) Error() string {
	return e.Message
}

func errf(kind ErrorKind, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ModelUsage is one per-model row of a usage result.
type ModelUsage struct {
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Requests int64   `json:"requests"`
}

// Result is the normalized output of a successful fetch. Providers that only
// expose a balance or plan quota return zero-valued numeric fields and put a
// formatted summary in Note.
type Result struct {
	TotalSpend   float64      `json:"totalSpend"`
	Limit        *float64     `json:"limit"`
	Requests     int64        `json:"requests"`
	InputTokens  int64        `json:"inputTokens"`
	OutputTokens int64        `json:"outputTokens"`
	DailySpend   []float64    `json:"dailySpend,omitempty"` // index 0 = day 1 of the current month
	Models       []ModelUsage `json:"models"`               // sorted by cost descending
	Note         string       `json:"note,omitempty"`
}
