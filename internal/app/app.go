package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"BulletinScraper/internal/cache"
	"BulletinScraper/internal/config"
	"BulletinScraper/internal/httpapi"
	"BulletinScraper/internal/infrastructure/parser"
	"BulletinScraper/internal/infrastructure/sina"
	"BulletinScraper/internal/logging"
	"BulletinScraper/internal/scanner"
	"BulletinScraper/internal/usecase"
	"BulletinScraper/pkg/logger"
)

// Application wires configs to use cases and the HTTP lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *httpapi.Server
}

// New builds the runnable application. The PDF link cache is created here once
// and shared by every request for the lifetime of the process.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	site := SiteFromConfig(cfg)
	client := sina.NewClient(&http.Client{}, cfg.Upstream.UserAgent, cfg.Upstream.AcceptLanguage)

	registry := scanner.NewRegistry()
	for _, route := range sina.DefaultRoutes() {
		registry.Register(sina.NewListScanner(client, site, route, nil,
			baseLogger.With("component", "scanner."+string(route.Category))))
	}
	source := scanner.NewStrategySource(registry, baseLogger.With("component", "source"))

	heuristic := parser.AnchorHeuristic{
		TextKeywords:  cfg.PdfLink.TextKeywords,
		HrefMarkers:   cfg.PdfLink.HrefMarkers,
		MaxTextLength: cfg.PdfLink.MaxTextLength,
	}
	links := sina.NewPdfLinkResolver(client, site, cache.NewPdfLinks(),
		baseLogger.With("component", "pdflinks"),
		parser.AnchorExtractor(heuristic),
		parser.RawPdfHrefExtractor,
	)

	reports := usecase.NewReportService(usecase.ReportsDeps{
		Resolver: sina.NewResolver(client, site, baseLogger.With("component", "resolver")),
		Source:   source,
		Logger:   baseLogger.With("component", "reports"),
	})
	proxy := usecase.NewPdfProxy(usecase.PdfProxyDeps{
		Links:      links,
		Downloader: sina.NewDownloader(client, site.Timeouts.PDF, baseLogger.With("component", "downloader")),
		Logger:     baseLogger.With("component", "pdfproxy"),
	})

	server := httpapi.New(reports, proxy, httpapi.Options{
		Addr:              cfg.Server.Addr,
		StaticDir:         cfg.Server.StaticDir,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ErrorLog:          logger.New("http", baseLogger),
	}, baseLogger.With("component", "http"))

	return &Application{cfg: cfg, logger: baseLogger, server: server}
}

// SiteFromConfig maps upstream settings onto the scraper endpoints.
func SiteFromConfig(cfg config.Config) sina.Site {
	return sina.Site{
		SuggestURL:    cfg.Upstream.SuggestURL,
		ListBaseURL:   cfg.Upstream.ListBaseURL,
		DetailBaseURL: cfg.Upstream.DetailBaseURL,
		Timeouts: sina.Timeouts{
			Suggest: cfg.Timeouts.Suggest,
			Listing: cfg.Timeouts.Listing,
			Detail:  cfg.Timeouts.Detail,
			PDF:     cfg.Timeouts.PDF,
		},
	}
}

// Handler exposes the routed HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
