package usecase

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/infrastructure/parser"
	"BulletinScraper/internal/ports"
)

const maxFilenameRunes = 120

var reservedFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// PdfProxyDeps wires the driven adapters used by the PDF proxy.
type PdfProxyDeps struct {
	Links      ports.PdfLinkResolver
	Downloader ports.Downloader
	Logger     *slog.Logger
}

// PdfProxy resolves and opens bulletin PDFs, degrading to the detail page.
type PdfProxy struct {
	links      ports.PdfLinkResolver
	downloader ports.Downloader
	logger     *slog.Logger
}

// NewPdfProxy constructs the proxy component.
func NewPdfProxy(deps PdfProxyDeps) *PdfProxy {
	return &PdfProxy{
		links:      deps.Links,
		downloader: deps.Downloader,
		logger:     deps.Logger,
	}
}

// PdfRequest holds the caller-supplied parameters.
type PdfRequest struct {
	StockCode  string
	BulletinID string
	Title      string
}

// PdfDocument is an open upstream PDF ready to be streamed.
type PdfDocument struct {
	Body          io.ReadCloser
	Filename      string
	ContentLength int64
}

// PdfResponse holds exactly one of Document or RedirectURL.
type PdfResponse struct {
	Document    *PdfDocument
	RedirectURL string
}

// Stream validates the request and opens the PDF. Any resolution or fetch failure
// yields a redirect to the bulletin detail page instead of an error; only malformed
// input is returned as an error, before any network call.
func (p *PdfProxy) Stream(ctx context.Context, req PdfRequest) (PdfResponse, error) {
	stockCode := req.StockCode
	bulletinID := strings.TrimSpace(req.BulletinID)

	if !parser.IsStockCode(stockCode) {
		return PdfResponse{}, domain.InvalidInput("股票代码格式错误")
	}
	if bulletinID == "" {
		return PdfResponse{}, domain.InvalidInput("公告ID不能为空")
	}

	detailURL := p.links.DetailURL(stockCode, bulletinID)

	pdfURL, err := p.links.ResolvePdfURL(ctx, stockCode, bulletinID)
	if err != nil {
		p.warn("pdf link unresolved, redirecting", "stock", stockCode, "bulletin", bulletinID, "error", err)
		return PdfResponse{RedirectURL: detailURL}, nil
	}

	dl, err := p.downloader.Download(ctx, pdfURL, detailURL)
	if err != nil {
		p.warn("pdf fetch failed, redirecting", "stock", stockCode, "bulletin", bulletinID, "url", pdfURL, "error", err)
		return PdfResponse{RedirectURL: detailURL}, nil
	}

	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = stockCode + "_" + bulletinID
	}

	return PdfResponse{Document: &PdfDocument{
		Body:          dl.Body,
		Filename:      SanitizeFilename(title) + ".pdf",
		ContentLength: dl.Size,
	}}, nil
}

// SanitizeFilename replaces reserved path characters with spaces, collapses
// whitespace (including full-width and no-break spaces) and caps the result at
// 120 characters. An empty result becomes "report".
func SanitizeFilename(title string) string {
	cleaned := reservedFilenameChars.ReplaceAllString(title, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "report"
	}

	runes := []rune(cleaned)
	if len(runes) > maxFilenameRunes {
		cleaned = strings.TrimSpace(string(runes[:maxFilenameRunes]))
	}
	return cleaned
}

// ContentDisposition builds an attachment header with an RFC 5987 UTF-8 filename.
func ContentDisposition(filename string) string {
	const upperhex = "0123456789ABCDEF"

	var b strings.Builder
	b.WriteString("attachment; filename*=UTF-8''")
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func (p *PdfProxy) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
