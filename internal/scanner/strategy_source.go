package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/ports"
)

// StrategySource implements ports.BulletinSource via registered category scanners.
type StrategySource struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.BulletinSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry.
func NewStrategySource(reg *Registry, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		logger:   log,
	}
}

// Fetch lists one category, newest first. The "all" wildcard is delegated to FetchAll.
func (s *StrategySource) Fetch(ctx context.Context, stockCode string, category domain.ReportCategory) ([]domain.BulletinItem, error) {
	if category == domain.CategoryAll {
		return s.FetchAll(ctx, stockCode)
	}
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	items, err := s.scan(ctx, stockCode, category)
	if err != nil {
		return nil, err
	}
	return SortByDate(items), nil
}

func (s *StrategySource) scan(ctx context.Context, stockCode string, category domain.ReportCategory) ([]domain.BulletinItem, error) {
	strategy, err := s.registry.Resolve(category)
	if err != nil {
		return nil, err
	}

	items, err := strategy.Scan(ctx, Request{StockCode: stockCode, Category: category})
	if err != nil {
		return nil, fmt.Errorf("scan %s via %s: %w", category, strategy.Name(), err)
	}
	s.debug("category scanned", "stock", stockCode, "category", category, "scanner", strategy.Name(), "count", len(items))
	return items, nil
}

// FetchAll scans every registered category, keeps the first bulletin per identity
// and orders the result by date, newest first. Equal dates keep scan order.
func (s *StrategySource) FetchAll(ctx context.Context, stockCode string) ([]domain.BulletinItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	var aggregated []domain.BulletinItem
	for _, category := range s.registry.Categories() {
		items, err := s.scan(ctx, stockCode, category)
		if err != nil {
			return nil, err
		}
		aggregated = append(aggregated, items...)
	}

	merged := Merge(aggregated)
	s.debug("aggregate done", "stock", stockCode, "total", len(aggregated), "unique", len(merged))
	return merged, nil
}

// Merge dedupes bulletins by Key (first occurrence wins) and sorts by date descending.
func Merge(items []domain.BulletinItem) []domain.BulletinItem {
	seen := make(map[string]struct{}, len(items))
	deduped := make([]domain.BulletinItem, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, item)
	}

	return SortByDate(deduped)
}

// SortByDate orders bulletins newest first in place; equal dates keep their order.
func SortByDate(items []domain.BulletinItem) []domain.BulletinItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
