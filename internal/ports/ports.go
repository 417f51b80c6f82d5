package ports

import (
	"context"
	"io"

	"BulletinScraper/internal/domain"
)

// StockResolver turns a free-text query into a canonical stock.
type StockResolver interface {
	Resolve(ctx context.Context, query string) (domain.StockInfo, error)
}

// BulletinSource lists bulletins for one category or for all of them.
type BulletinSource interface {
	Fetch(ctx context.Context, stockCode string, category domain.ReportCategory) ([]domain.BulletinItem, error)
	FetchAll(ctx context.Context, stockCode string) ([]domain.BulletinItem, error)
}

// PdfLinkResolver finds the PDF document behind a bulletin detail page.
type PdfLinkResolver interface {
	ResolvePdfURL(ctx context.Context, stockCode, bulletinID string) (string, error)
	DetailURL(stockCode, bulletinID string) string
}

// Download is an open upstream document body. Size is -1 when unknown.
type Download struct {
	Body io.ReadCloser
	Size int64
}

// Downloader fetches PDF payloads as a stream.
type Downloader interface {
	Download(ctx context.Context, url, referer string) (*Download, error)
}
