// Package httpapi serves the JSON order and position API over a single
// simulated account, for driving the simulator from outside a backtest
// (manual testing, replay tools, dashboards).
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"fxsim/internal/broker"
	"fxsim/internal/domain"
)

// Server exposes one SimulatorBroker over HTTP. Handlers run requests
// sequentially against the account via the standard library mux; the account
// itself is single-threaded, so the server serializes mutating calls.
type Server struct {
	sim *broker.SimulatorBroker
	log *slog.Logger

	// Serializes account access across handler goroutines.
	ops chan struct{}
}

// NewServer creates a Server around the given simulator.
func NewServer(sim *broker.SimulatorBroker, log *slog.Logger) *Server {
	s := &Server{
		sim: sim,
		log: log,
		ops: make(chan struct{}, 1),
	}
	s.ops <- struct{}{}
	return s
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/orders", s.handleSubmitOrder)
	mux.HandleFunc("GET /v1/orders", s.handleListOrders)
	mux.HandleFunc("GET /v1/orders/{id}", s.handleGetOrder)
	mux.HandleFunc("PATCH /v1/orders/{id}", s.handleModifyOrder)
	mux.HandleFunc("DELETE /v1/orders/{id}", s.handleCancelOrder)
	mux.HandleFunc("GET /v1/positions", s.handlePositions)
	mux.HandleFunc("POST /v1/ticks", s.handleTick)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
}

// Handler returns the complete http.Handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// locked runs fn while holding the account serialization token.
func (s *Server) locked(fn func()) {
	<-s.ops
	defer func() { s.ops <- struct{}{} }()
	fn()
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var (
		result *domain.OrderResult
		err    error
	)
	s.locked(func() {
		result, err = s.sim.SubmitOrder(r.Context(), domain.OrderRequest{
			Pair:    req.Pair,
			Side:    domain.Side(req.Side),
			Units:   req.Units,
			Type:    domain.OrderType(req.Type),
			Options: req.Options,
		})
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResultJSON(result))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	count := 0
	if c := r.URL.Query().Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid count: "+c)
			return
		}
		count = n
	}
	pair := r.URL.Query().Get("pair")
	maxID := r.URL.Query().Get("maxId")

	var orders []domain.Order
	s.locked(func() {
		orders, _ = s.sim.ListOrders(r.Context(), count, pair, maxID)
	})
	out := make([]*orderJSON, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderJSON(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	var (
		order *domain.Order
		err   error
	)
	s.locked(func() {
		order, err = s.sim.GetOrder(r.Context(), r.PathValue("id"))
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (s *Server) handleModifyOrder(w http.ResponseWriter, r *http.Request) {
	var options map[string]any
	if err := json.NewDecoder(r.Body).Decode(&options); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var (
		order *domain.Order
		err   error
	)
	s.locked(func() {
		order, err = s.sim.ModifyOrder(r.Context(), r.PathValue("id"), options)
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var (
		order *domain.Order
		err   error
	)
	s.locked(func() {
		order, err = s.sim.CancelOrder(r.Context(), r.PathValue("id"))
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	var positions []domain.Position
	s.locked(func() {
		positions, _ = s.sim.GetPositions(r.Context())
	})
	out := make([]*positionJSON, 0, len(positions))
	for i := range positions {
		out = append(out, toPositionJSON(&positions[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	tick := &domain.Tick{
		Time:   req.Time,
		Prices: make(map[string]domain.Price, len(req.Prices)),
	}
	for pair, q := range req.Prices {
		bid, err := decimal.NewFromString(q.Bid)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid bid for "+pair+": "+q.Bid)
			return
		}
		ask, err := decimal.NewFromString(q.Ask)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ask for "+pair+": "+q.Ask)
			return
		}
		tick.Prices[pair] = domain.Price{Bid: bid, Ask: ask}
	}

	var results []*domain.OrderResult
	s.locked(func() {
		results = s.sim.OnTick(tick)
	})
	out := make([]*orderResultJSON, 0, len(results))
	for _, res := range results {
		out = append(out, toResultJSON(res))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "broker": s.sim.Name()})
}

// writeDomainError maps domain errors to HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
