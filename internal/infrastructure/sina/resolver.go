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

// Resolver looks stocks up through the suggestion endpoint.
type Resolver struct {
	client *Client
	site   Site
	logger *slog.Logger
}

var _ ports.StockResolver = (*Resolver)(nil)

// NewResolver builds a suggestion-backed stock resolver.
func NewResolver(client *Client, site Site, log *slog.Logger) *Resolver {
	return &Resolver{client: client, site: site, logger: log}
}

// Resolve maps a code, name or pinyin abbreviation to a stock. A six-digit query
// the suggestion service cannot confirm is accepted as an unverified code.
func (r *Resolver) Resolve(ctx context.Context, query string) (domain.StockInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.StockInfo{}, domain.InvalidInput("请输入股票代码或名称")
	}

	page, err := r.client.GetPage(ctx, r.suggestURL(query), r.site.Timeouts.Suggest, simplifiedchinese.GBK)
	if err != nil {
		if parser.IsStockCode(query) {
			r.warn("suggest unavailable, using query as code", "query", query, "error", err)
			return literalStock(query), nil
		}
		return domain.StockInfo{}, domain.Upstream("股票查询服务暂不可用", err)
	}

	if info, ok := parser.PickStock(parser.ParseSuggest(page)); ok {
		r.debug("stock resolved", "query", query, "code", info.Code, "name", info.Name)
		return info, nil
	}

	if parser.IsStockCode(query) {
		r.debug("no suggestion match, using query as code", "query", query)
		return literalStock(query), nil
	}
	return domain.StockInfo{}, domain.NotFound("未找到匹配的股票")
}

// suggestURL escapes every reserved character in the key, so a query cannot
// add parameters of its own.
func (r *Resolver) suggestURL(query string) string {
	key := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return fmt.Sprintf("%s/type=11,12,13,14,15&key=%s", strings.TrimSuffix(r.site.SuggestURL, "/"), key)
}

func literalStock(code string) domain.StockInfo {
	return domain.StockInfo{Code: code, Name: code}
}

func (r *Resolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Resolver) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
