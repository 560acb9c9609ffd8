package usage

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/xid"
	"golang.org/x/time/rate"

	"github.com/drjarvisw-bit/usageclaw/provider"
)

// RelayAPI serves the usage relay over HTTP. It exists to let browser-side
// consumers avoid cross-origin restrictions; it performs no logic beyond
// invoking the aggregator and mapping the error class to a status code.
type RelayAPI struct {
	mux      *http.ServeMux
	registry *provider.Registry
	agg      *Aggregator
	log      *FetchLog
	limiter  *rate.Limiter
}

func NewRelayAPI(reg *provider.Registry, agg *Aggregator, log *FetchLog) *RelayAPI {
	api := &RelayAPI{
		mux:      http.NewServeMux(),
		registry: reg,
		agg:      agg,
		log:      log,
		limiter:  rate.NewLimiter(10, 5), // 10 req/s, burst 5
	}
	api.mux.HandleFunc("POST /api/usage", api.handleUsage)
	api.mux.HandleFunc("OPTIONS /api/usage", api.handlePreflight)
	api.mux.HandleFunc("GET /api/providers", api.handleProviders)
	api.mux.HandleFunc("GET /api/log", api.handleLog)
	api.mux.HandleFunc("GET /api/stats", api.handleStats)
	return api
}

func (a *RelayAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	w.Header().Set("X-Request-Id", xid.New().String())
	a.mux.ServeHTTP(w, r)
}

func corsHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (a *RelayAPI) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (a *RelayAPI) handleUsage(w http.ResponseWriter, r *http.Request) {
	if !a.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req struct {
		Provider string `json:"provider"`
		APIKey   string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Provider == "" || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "missing provider or apiKey")
		return
	}

	result, err := a.agg.Fetch(r.Context(), req.Provider, req.APIKey)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, result)
}

// statusForError maps the fetch error taxonomy onto relay status codes.
func statusForError(err error) int {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return http.StatusInternalServerError
	}
	switch fe.Kind {
	case KindNotSupported:
		return http.StatusBadRequest
	case KindInvalidCredential:
		return http.StatusUnauthorized
	case KindInsufficientScope, KindMissingEntitlement:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *RelayAPI) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.registry.All())
}

func (a *RelayAPI) handleLog(w http.ResponseWriter, r *http.Request) {
	var afterID uint64
	if s := r.URL.Query().Get("after"); s != "" {
		afterID, _ = strconv.ParseUint(s, 10, 64)
	}
	writeJSON(w, a.log.RecordsAfter(afterID))
}

func (a *RelayAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.log.Stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
