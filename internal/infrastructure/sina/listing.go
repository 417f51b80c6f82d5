package sina

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/infrastructure/parser"
	"BulletinScraper/internal/scanner"
)

// Route binds a report category to its listing page path.
type Route struct {
	Category domain.ReportCategory
	Path     string
}

var listingPaths = map[domain.ReportCategory]string{
	domain.CategoryAnnual:  "vCB_Bulletin",
	domain.CategoryQ1:      "vCB_BulletinYi",
	domain.CategoryInterim: "vCB_BulletinZhong",
	domain.CategoryQ3:      "vCB_BulletinSan",
}

// DefaultRoutes lists one listing route per concrete category, in aggregation order.
func DefaultRoutes() []Route {
	categories := domain.ConcreteCategories()
	routes := make([]Route, 0, len(categories))
	for _, c := range categories {
		routes = append(routes, Route{Category: c, Path: listingPaths[c]})
	}
	return routes
}

// ListScanner fetches the bulletin listing of one report category.
type ListScanner struct {
	client *Client
	site   Site
	route  Route
	parser parser.ListingParser
	logger *slog.Logger
}

var _ scanner.Scanner = (*ListScanner)(nil)

// NewListScanner builds a scanner for route; a nil parser falls back to the datelist layout.
func NewListScanner(client *Client, site Site, route Route, p parser.ListingParser, log *slog.Logger) *ListScanner {
	if p == nil {
		p = parser.DatelistParser{DetailOrigin: site.DetailBaseURL}
	}
	return &ListScanner{client: client, site: site, route: route, parser: p, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *ListScanner) Name() string {
	return "sina/" + s.route.Path
}

// Category reports the category this scanner serves.
func (s *ListScanner) Category() domain.ReportCategory {
	return s.route.Category
}

// Scan returns the listing rows in page order. Fetch failures degrade to an empty
// result; only cancellation of the caller's context is reported as an error.
func (s *ListScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.BulletinItem, error) {
	if req.Category != s.route.Category {
		return nil, nil
	}

	pageURL, err := s.pageURL(req.StockCode)
	if err != nil {
		return nil, err
	}

	page, err := s.client.GetPage(ctx, pageURL, s.site.Timeouts.Listing, simplifiedchinese.GB18030)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.warn("listing unavailable", "category", s.route.Category, "stock", req.StockCode, "error", err)
		return nil, nil
	}

	items := s.parser.Parse(page)
	s.debug("listing parsed", "category", s.route.Category, "stock", req.StockCode, "items", len(items))
	return items, nil
}

func (s *ListScanner) pageURL(stockCode string) (string, error) {
	if stockCode == "" {
		return "", errors.New("stock code is required")
	}
	base := strings.TrimSuffix(s.site.ListBaseURL, "/")
	return fmt.Sprintf("%s/corp/go.php/%s/stockid/%s/page_type/%s.phtml",
		base, s.route.Path, url.PathEscape(stockCode), s.route.Category), nil
}

func (s *ListScanner) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *ListScanner) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
