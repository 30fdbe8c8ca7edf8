package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"morpheus/native/builders"
	"morpheus/native/rewards"
	"morpheus/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32020
)

// ServerConfig tunes the calculator RPC surface.
type ServerConfig struct {
	// AuthToken, when set, requires a matching bearer token on /rpc.
	AuthToken          string
	RateLimitPerMinute float64
	RateLimitBurst     int
	// AnnualGrowthRate overrides the default projection growth assumption.
	AnnualGrowthRate float64
}

// Server exposes the reward calculator and builder directory over JSON-RPC.
type Server struct {
	registry *builders.Registry
	cfg      ServerConfig

	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

// NewServer constructs a calculator RPC server.
func NewServer(registry *builders.Registry, cfg ServerConfig) *Server {
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 600
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.AnnualGrowthRate == 0 {
		cfg.AnnualGrowthRate = rewards.DefaultAnnualGrowthRate
	}
	return &Server{
		registry: registry,
		cfg:      cfg,
		visitors: make(map[string]*rate.Limiter),
	}
}

// Router assembles the HTTP surface: the RPC endpoint plus health and metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Method(http.MethodPost, "/rpc", otelhttp.NewHandler(http.HandlerFunc(s.handleRPC), "rpc"))
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// RPCRequest is the JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

// RPCError is the JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RPCResponse is the JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "unauthorized", nil)
		return
	}
	source := clientSource(r)
	if !s.limiterFor(source).Allow() {
		metrics.Calc().ObserveRateLimited()
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request body", nil)
		return
	}
	if len(body) > maxRequestBytes {
		writeError(w, http.StatusRequestEntityTooLarge, nil, codeInvalidRequest, "request body too large", nil)
		return
	}

	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON", nil)
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", nil)
		return
	}
	if strings.TrimSpace(req.Method) == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	s.dispatch(w, &req)
}

func (s *Server) dispatch(w http.ResponseWriter, req *RPCRequest) {
	handler, ok := s.handlers()[req.Method]
	if !ok {
		metrics.Calc().ObserveRequest(req.Method, false)
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", nil)
		return
	}
	result, rpcErr := handler(req)
	metrics.Calc().ObserveRequest(req.Method, rpcErr == nil)
	if rpcErr != nil {
		writeError(w, httpStatusFor(rpcErr.Code), req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, result)
}

type handlerFunc func(*RPCRequest) (any, *RPCError)

func (s *Server) handlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		"calc_durationToSeconds":       s.handleDurationToSeconds,
		"calc_validateLockDuration":    s.handleValidateLockDuration,
		"calc_powerFactor":             s.handlePowerFactor,
		"calc_powerFactorFromDuration": s.handlePowerFactorFromDuration,
		"calc_baseRewards":             s.handleBaseRewards,
		"calc_estimateRewards":         s.handleEstimateRewards,
		"calc_futurePoolRate":          s.handleFuturePoolRate,
		"calc_formatAmount":            s.handleFormatAmount,
		"calc_formatTimestamp":         s.handleFormatTimestamp,
		"builders_mergedList":          s.handleBuildersMergedList,
		"builders_register":            s.handleBuildersRegister,
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.cfg.AuthToken == "" {
		return true
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.cfg.AuthToken)) == 1
}

func (s *Server) limiterFor(source string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.visitors[source]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimitPerMinute/60), s.cfg.RateLimitBurst)
		s.visitors[source] = limiter
	}
	return limiter
}

func clientSource(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func decodeParams(req *RPCRequest, out any) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "expected a single params object"}
	}
	decoder := json.NewDecoder(strings.NewReader(string(req.Params[0])))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

func httpStatusFor(code int) int {
	switch code {
	case codeInvalidParams, codeInvalidRequest, codeParseError:
		return http.StatusBadRequest
	case codeMethodNotFound:
		return http.StatusNotFound
	case codeUnauthorized:
		return http.StatusUnauthorized
	case codeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	writeJSON(w, http.StatusOK, RPCResponse{JSONRPC: jsonRPCVersion, Result: result, ID: id})
}

func writeError(w http.ResponseWriter, status int, id json.RawMessage, code int, message string, data any) {
	writeJSON(w, status, RPCResponse{
		JSONRPC: jsonRPCVersion,
		Error:   &RPCError{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
