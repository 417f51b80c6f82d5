package parser

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"BulletinScraper/internal/domain"
)

var (
	datelistExpr = regexp.MustCompile(`(?s)<div class="datelist">(.*?)</div>`)
	rowExpr      = regexp.MustCompile(`(?s)(\d{4}-\d{2}-\d{2})(?:&nbsp;|\x{00A0})?\s*<a[^>]+href=["']([^"']+)["'][^>]*>([^<]+)</a>`)
	bulletinID   = regexp.MustCompile(`[?&]id=(\d+)`)
	yearWithMark = regexp.MustCompile(`((?:19|20)\d{2})年`)
	bareYear     = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)\d{2})(?:[^0-9]|$)`)
)

// ListingParser extracts bulletin rows from a category listing page.
type ListingParser interface {
	Parse(page string) []domain.BulletinItem
}

// DatelistParser reads the "datelist" block used by the Sina bulletin pages.
type DatelistParser struct {
	// DetailOrigin is prefixed to root-relative detail links.
	DetailOrigin string
}

var _ ListingParser = DatelistParser{}

// Parse returns the bulletins of the first datelist block. A missing block or a
// block without recognizable rows yields nil: the stock simply has no bulletins.
func (p DatelistParser) Parse(page string) []domain.BulletinItem {
	block := datelistExpr.FindStringSubmatch(page)
	if len(block) < 2 {
		return nil
	}

	var items []domain.BulletinItem
	for _, row := range rowExpr.FindAllStringSubmatch(block[1], -1) {
		item, ok := p.parseRow(row[1], row[2], row[3])
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (p DatelistParser) parseRow(date, href, title string) (domain.BulletinItem, bool) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.BulletinItem{}, false
	}

	detailURL := AbsoluteURL(html.UnescapeString(href), p.DetailOrigin)
	title = strings.TrimSpace(html.UnescapeString(title))

	var id string
	if m := bulletinID.FindStringSubmatch(detailURL); len(m) == 2 {
		id = m[1]
	}

	return domain.BulletinItem{
		ID:         id,
		Title:      title,
		Date:       date,
		DetailURL:  detailURL,
		ReportYear: ReportYear(title, date),
	}, true
}

// ReportYear picks the fiscal year a bulletin covers: "2023年" in the title first,
// then any bare 19xx/20xx token, then the publication year.
func ReportYear(title, date string) string {
	if m := yearWithMark.FindStringSubmatch(title); len(m) == 2 {
		return m[1]
	}
	if m := bareYear.FindStringSubmatch(title); len(m) == 2 {
		return m[1]
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// AbsoluteURL resolves protocol-relative and root-relative links against origin.
func AbsoluteURL(link, origin string) string {
	switch {
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "/"):
		return strings.TrimSuffix(origin, "/") + link
	}
	return link
}
