package sina

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/infrastructure/parser"
	"BulletinScraper/internal/ports"
)

// LinkCache remembers resolved PDF links per (stock, bulletin).
type LinkCache interface {
	Get(stockCode, bulletinID string) (string, bool)
	PutIfAbsent(stockCode, bulletinID, link string) string
}

// PdfLinkResolver scrapes bulletin detail pages for their PDF attachment.
type PdfLinkResolver struct {
	client     *Client
	site       Site
	cache      LinkCache
	extractors []parser.LinkExtractor
	logger     *slog.Logger
}

var _ ports.PdfLinkResolver = (*PdfLinkResolver)(nil)

// NewPdfLinkResolver wires the resolver. Without extractors the default download
// anchor heuristic runs first and the raw ".pdf" href scan second.
func NewPdfLinkResolver(client *Client, site Site, cache LinkCache, log *slog.Logger, extractors ...parser.LinkExtractor) *PdfLinkResolver {
	if len(extractors) == 0 {
		extractors = []parser.LinkExtractor{
			parser.AnchorExtractor(parser.DefaultAnchorHeuristic()),
			parser.RawPdfHrefExtractor,
		}
	}
	return &PdfLinkResolver{
		client:     client,
		site:       site,
		cache:      cache,
		extractors: extractors,
		logger:     log,
	}
}

// DetailURL builds the bulletin detail page address.
func (r *PdfLinkResolver) DetailURL(stockCode, bulletinID string) string {
	return fmt.Sprintf("%s/corp/view/vCB_AllBulletinDetail.php?stockid=%s&id=%s",
		strings.TrimSuffix(r.site.DetailBaseURL, "/"), url.QueryEscape(stockCode), url.QueryEscape(bulletinID))
}

// ResolvePdfURL returns the cached link or scrapes the detail page for it.
// Only successful resolutions are cached.
func (r *PdfLinkResolver) ResolvePdfURL(ctx context.Context, stockCode, bulletinID string) (string, error) {
	if r.cache != nil {
		if link, ok := r.cache.Get(stockCode, bulletinID); ok {
			r.debug("pdf link cache hit", "stock", stockCode, "bulletin", bulletinID)
			return link, nil
		}
	}

	page, err := r.client.GetPage(ctx, r.DetailURL(stockCode, bulletinID), r.site.Timeouts.Detail, simplifiedchinese.GB18030)
	if err != nil {
		return "", domain.Upstream("公告详情页获取失败", err)
	}

	link, ok := parser.ExtractPdfLink(page, r.site.DetailBaseURL, r.extractors...)
	if !ok {
		return "", domain.NotFound("未找到PDF链接")
	}

	if r.cache != nil {
		link = r.cache.PutIfAbsent(stockCode, bulletinID, link)
	}
	r.debug("pdf link resolved", "stock", stockCode, "bulletin", bulletinID, "url", link)
	return link, nil
}

func (r *PdfLinkResolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
