package scanner

import (
	"context"
	"fmt"

	"BulletinScraper/internal/domain"
)

// Request carries all parameters required to scan one listing.
type Request struct {
	StockCode string
	Category  domain.ReportCategory
}

// Scanner captures a single listing strategy, bound to one report category.
type Scanner interface {
	Name() string
	Category() domain.ReportCategory
	Scan(ctx context.Context, req Request) ([]domain.BulletinItem, error)
}

// Registry keeps a mapping from report categories to their scanners.
// Registration order is the aggregation order.
type Registry struct {
	scanners map[domain.ReportCategory]Scanner
	order    []domain.ReportCategory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[domain.ReportCategory]Scanner{}}
}

// Register adds or replaces the scanner for its category.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[domain.ReportCategory]Scanner{}
	}
	cat := scanner.Category()
	if _, exists := r.scanners[cat]; !exists {
		r.order = append(r.order, cat)
	}
	r.scanners[cat] = scanner
}

// Resolve returns the scanner for a category or an error if it is absent.
func (r *Registry) Resolve(category domain.ReportCategory) (Scanner, error) {
	if scanner, ok := r.scanners[category]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("no scanner registered for category %s", category)
}

// Categories lists registered categories in registration order.
func (r *Registry) Categories() []domain.ReportCategory {
	out := make([]domain.ReportCategory, len(r.order))
	copy(out, r.order)
	return out
}
