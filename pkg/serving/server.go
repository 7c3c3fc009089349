// Package serving exposes the sample history over HTTP: a human-readable
// table, a CSV endpoint, the column legend, a Prometheus scrape target, and a
// health probe.
package serving

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/reporting"
)

// Server wraps an http.Server over one engine.
type Server struct {
	src    reporting.Source
	opts   reporting.PrintOptions
	logger zerolog.Logger
	http   *http.Server
}

// New builds the server. opts is the base rendering configuration; request
// query parameters override individual fields per request.
func New(addr string, src reporting.Source, opts reporting.PrintOptions, logger zerolog.Logger) *Server {
	s := &Server{
		src:    src,
		opts:   opts,
		logger: logger,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(src))

	mux := http.NewServeMux()
	mux.HandleFunc("/vitals", s.handleTable)
	mux.HandleFunc("/vitals.csv", s.handleCSV)
	mux.HandleFunc("/legend", s.handleLegend)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("http server listening")
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}

// requestOptions layers query parameters over the configured baseline, using
// the same keyword syntax as the command line.
func (s *Server) requestOptions(r *http.Request) reporting.PrintOptions {
	o := s.opts
	q := r.URL.Query()
	var args []string
	for _, key := range []string{"scale", "max"} {
		if v := q.Get(key); v != "" {
			args = append(args, key+"="+v)
		}
	}
	for _, key := range []string{"raw", "reverse", "no_legend"} {
		if q.Has(key) {
			args = append(args, key)
		}
	}
	if len(args) == 0 {
		return o
	}
	return reporting.ParseOptionsInto(o, args)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	o := s.requestOptions(r)
	o.CSV = false
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := reporting.WriteReport(w, s.src, o); err != nil {
		s.logger.Error().Err(err).Msg("rendering table response")
	}
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	o := s.requestOptions(r)
	o.CSV = true
	w.Header().Set("Content-Type", "text/csv")
	if err := reporting.WriteReport(w, s.src, o); err != nil {
		s.logger.Error().Err(err).Msg("rendering csv response")
	}
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := reporting.Legend(w, s.src); err != nil {
		s.logger.Error().Err(err).Msg("rendering legend response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
