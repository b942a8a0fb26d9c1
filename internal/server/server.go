// Package server is the read-only HTTP surface that opens share links:
// the estimate as JSON, the hours CSV and the Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/estimate"
	"github.com/alexanderramin/estimo/internal/export"
	"github.com/alexanderramin/estimo/internal/filter"
	"github.com/alexanderramin/estimo/internal/link"
	"github.com/alexanderramin/estimo/internal/service"
	"github.com/alexanderramin/estimo/internal/source"
)

// Config wires the server's collaborators.
type Config struct {
	Resolver  *source.Resolver
	Pricing   domain.PricingConfig
	BaseURL   string
	Metrics   http.Handler
	Logger    *slog.Logger
	Observers []service.UseCaseObserver
}

type Server struct {
	cfg Config
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Pricing.Rate <= 0 {
		cfg.Pricing = domain.DefaultPricing()
	}
	return &Server{cfg: cfg}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/estimate", s.handleEstimate)
	mux.HandleFunc("GET /api/export/hours.csv", s.handleHoursCSV)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.cfg.Metrics != nil {
		mux.Handle("GET /metrics", s.cfg.Metrics)
	}
	return mux
}

// Serve listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.cfg.Logger.Info("estimo HTTP server listening", "addr", listener.Addr().String())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

// request is what a share link carries, read from the query string.
type request struct {
	link     link.Link
	criteria filter.Criteria
}

func parseRequest(r *http.Request) (request, error) {
	l, err := link.Parse(r.URL.String())
	if err != nil {
		return request{}, err
	}
	q := r.URL.Query()
	// Fragments never reach the server, so the token travels as a query
	// parameter. Query decoding turns '+' into a space; tokens have none.
	l.DraftToken = strings.ReplaceAll(q.Get("draft"), " ", "+")

	c := filter.Criteria{Priority: filter.All, Query: q.Get("q")}
	if p := q.Get("priority"); p != "" && !strings.EqualFold(p, string(filter.All)) {
		parsed, err := domain.ParsePriority(p)
		if err != nil {
			return request{}, err
		}
		c.Priority = parsed
	}
	return request{link: l, criteria: c}, nil
}

func (s *Server) session(ctx context.Context, req request) (*service.EstimateSession, error) {
	sess := service.NewEstimateSession(s.cfg.Resolver, nil, service.SessionConfig{
		Role:       req.link.View,
		Pricing:    req.link.Pricing(s.cfg.Pricing),
		DraftToken: req.link.DraftToken,
		BaseURL:    s.cfg.BaseURL,
	}, s.cfg.Observers...)
	if err := sess.Load(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

type itemJSON struct {
	domain.LineItem
	Total domain.Hours `json:"total"`
	Cost  float64      `json:"cost"`
}

type totalsJSON struct {
	ByPriority    map[domain.Priority]domain.Hours `json:"byPriority"`
	GrandTotal    domain.Hours                     `json:"grandTotal"`
	BufferedTotal domain.Hours                     `json:"bufferedTotal"`
	Cost          float64                          `json:"cost"`
	BufferedCost  float64                          `json:"bufferedCost"`
}

type estimateJSON struct {
	Provenance domain.Provenance    `json:"provenance"`
	View       domain.Role          `json:"view"`
	Pricing    domain.PricingConfig `json:"pricing"`
	Items      []itemJSON           `json:"items"`
	Totals     totalsJSON           `json:"totals"`
	Visibility access.Visibility    `json:"visibility"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, err := s.session(r.Context(), req)
	if err != nil {
		s.loadFailed(w, err)
		return
	}

	st := sess.State()
	visible := sess.Visible(req.criteria)
	items := make([]itemJSON, 0, len(visible))
	for _, item := range visible {
		items = append(items, itemJSON{
			LineItem: item,
			Total:    item.Total(),
			Cost:     estimate.ItemCost(item, st.Pricing),
		})
	}
	t := sess.Totals()
	err = writeJSON(w, http.StatusOK, estimateJSON{
		Provenance: st.Provenance,
		View:       st.Gate.DisplayedRole(),
		Pricing:    st.Pricing,
		Items:      items,
		Totals: totalsJSON{
			ByPriority:    t.ByPriority,
			GrandTotal:    t.GrandTotal,
			BufferedTotal: t.BufferedTotal,
			Cost:          t.Cost,
			BufferedCost:  t.BufferedCost,
		},
		Visibility: sess.Visibility(),
	})
	if err != nil {
		s.cfg.Logger.Error("encoding estimate", "error", err)
	}
}

func (s *Server) handleHoursCSV(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, err := s.session(r.Context(), req)
	if err != nil {
		s.loadFailed(w, err)
		return
	}
	body, err := sess.HoursCSV()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, export.HoursFilename))
	_, _ = w.Write([]byte(body))
}

func (s *Server) loadFailed(w http.ResponseWriter, err error) {
	s.cfg.Logger.Error("loading estimate", "error", err)
	status := http.StatusServiceUnavailable
	if errors.Is(err, source.ErrBadDocument) {
		status = http.StatusBadGateway
	}
	writeError(w, status, err)
}

// writeJSON encodes v before writing the status, so an unencodable value
// becomes a 500 rather than an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encoding response failed"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return err
}

func writeError(w http.ResponseWriter, status int, err error) {
	_ = writeJSON(w, status, map[string]string{"error": err.Error()})
}
