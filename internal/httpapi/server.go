// Package httpapi exposes the listing and PDF operations over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/usecase"
)

// ReportLister serves the listing query.
type ReportLister interface {
	ListReports(ctx context.Context, q usecase.ListQuery) (domain.ReportList, error)
}

// PdfStreamer serves the PDF proxy.
type PdfStreamer interface {
	Stream(ctx context.Context, req usecase.PdfRequest) (usecase.PdfResponse, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr              string
	StaticDir         string
	ReadHeaderTimeout time.Duration
	ErrorLog          *log.Logger
}

// Server manages the HTTP listener and routes.
type Server struct {
	reports ReportLister
	pdf     PdfStreamer
	logger  *slog.Logger
	opts    Options
	handler http.Handler
	server  *http.Server
}

// New builds the server and its middleware chain.
func New(reports ReportLister, pdf PdfStreamer, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		reports: reports,
		pdf:     pdf,
		logger:  logger,
		opts:    opts,
	}
	s.handler = s.withMiddleware(s.routes())
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		ErrorLog:          opts.ErrorLog,
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports", s.handleReports)
	mux.HandleFunc("GET /api/report/pdf", s.handleReportPdf)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	if dir := s.opts.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(dir)))
		} else {
			s.logger.Warn("static directory unavailable, front-end disabled", "dir", dir)
		}
	}
	return mux
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "address", s.opts.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
