package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/ledger"
)

const (
	HeaderCaller         = "X-Caller"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "X-Request-ID"
)

// Server exposes a Ledger over HTTP.
type Server struct {
	ledger  *ledger.Ledger
	log     *zap.Logger
	metrics *Metrics
	router  *mux.Router
}

// NewServer registers its metrics on reg and serves them from gatherer at /metrics.
func NewServer(l *ledger.Ledger, log *zap.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Server, error) {
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		ledger:  l,
		log:     log,
		metrics: metrics,
		router:  mux.NewRouter(),
	}
	s.metrics.currentEpoch.Set(float64(l.CurrentEpoch()))
	s.routes(gatherer)
	return s, nil
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	r := s.router
	r.Use(s.instrument)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/token", s.handleToken).Methods(http.MethodGet)
	r.HandleFunc("/supply", s.handleSupply).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}/balance", s.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}/checkpoints", s.handleCheckpoints).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{owner}/allowances/{spender}", s.handleAllowance).Methods(http.MethodGet)

	r.HandleFunc("/transfers", s.handleTransfer).Methods(http.MethodPost)
	r.HandleFunc("/transfers/delegated", s.handleTransferFrom).Methods(http.MethodPost)
	r.HandleFunc("/approvals", s.handleApprove).Methods(http.MethodPost)
	r.HandleFunc("/mint", s.handleMint).Methods(http.MethodPost)
	r.HandleFunc("/burn", s.handleBurn).Methods(http.MethodPost)
	r.HandleFunc("/snapshots", s.handleSnapshot).Methods(http.MethodPost)
	r.HandleFunc("/admin", s.handleSetAdmin).Methods(http.MethodPut)
	r.HandleFunc("/minter", s.handleSetMinter).Methods(http.MethodPut)
	r.HandleFunc("/rewards-contract", s.handleSetRewardsContract).Methods(http.MethodPut)
	r.HandleFunc("/metadata", s.handleSetMetadata).Methods(http.MethodPut)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument tags each request with an id, logs it and records its latency.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := time.Since(start)
		s.metrics.requests.
			WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).
			Observe(elapsed.Seconds())
		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}
