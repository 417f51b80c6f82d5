package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/ports"
)

// ReportsDeps wires the driven adapters used by report listing.
type ReportsDeps struct {
	Resolver ports.StockResolver
	Source   ports.BulletinSource
	Logger   *slog.Logger
}

// ReportService implements the listing query.
type ReportService struct {
	resolver ports.StockResolver
	source   ports.BulletinSource
	logger   *slog.Logger
}

// NewReportService constructs the listing component.
func NewReportService(deps ReportsDeps) *ReportService {
	return &ReportService{
		resolver: deps.Resolver,
		source:   deps.Source,
		logger:   deps.Logger,
	}
}

// ListQuery holds the caller-supplied listing parameters. Year 0 means no filter.
type ListQuery struct {
	Query      string
	ReportType string
	Year       int
}

// ListReports resolves the stock, fetches the requested category (or all of them)
// and applies the optional year filter. Reports is never nil.
func (s *ReportService) ListReports(ctx context.Context, q ListQuery) (domain.ReportList, error) {
	if strings.TrimSpace(q.Query) == "" {
		return domain.ReportList{}, domain.InvalidInput("请输入股票代码或名称")
	}

	category, err := domain.ParseCategory(q.ReportType)
	if err != nil {
		return domain.ReportList{}, err
	}

	stock, err := s.resolver.Resolve(ctx, q.Query)
	if err != nil {
		return domain.ReportList{}, err
	}

	var items []domain.BulletinItem
	if category == domain.CategoryAll {
		items, err = s.source.FetchAll(ctx, stock.Code)
	} else {
		items, err = s.source.Fetch(ctx, stock.Code, category)
	}
	if err != nil {
		return domain.ReportList{}, fmt.Errorf("fetch %s bulletins for %s: %w", category, stock.Code, err)
	}

	list := domain.ReportList{
		StockCode:       stock.Code,
		StockName:       stock.Name,
		Symbol:          stock.Symbol,
		ReportType:      category,
		ReportTypeLabel: category.Label(),
		Reports:         FilterByYear(items, q.Year),
	}
	if list.StockName == "" {
		list.StockName = stock.Code
	}
	if q.Year != 0 {
		year := q.Year
		list.Year = &year
	}

	if s.logger != nil {
		s.logger.Info("reports listed",
			"stock", stock.Code,
			"category", category,
			"year", q.Year,
			"fetched", len(items),
			"returned", len(list.Reports),
		)
	}
	return list, nil
}

// FilterByYear keeps items whose report year matches year; year 0 keeps everything.
// The result is never nil.
func FilterByYear(items []domain.BulletinItem, year int) []domain.BulletinItem {
	out := make([]domain.BulletinItem, 0, len(items))
	want := strconv.Itoa(year)
	for _, item := range items {
		if year != 0 && item.Year() != want {
			continue
		}
		out = append(out, item)
	}
	return out
}
