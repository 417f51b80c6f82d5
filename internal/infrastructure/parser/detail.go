package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var pdfHrefExpr = regexp.MustCompile(`(?i)href=["']([^"']+\.pdf)["']`)

// LinkExtractor finds a PDF link on a bulletin detail page.
type LinkExtractor func(page string) (string, bool)

// AnchorHeuristic describes the "download" call-to-action anchor.
type AnchorHeuristic struct {
	TextKeywords  []string
	HrefMarkers   []string
	MaxTextLength int
}

// DefaultAnchorHeuristic matches the Sina detail page download button.
func DefaultAnchorHeuristic() AnchorHeuristic {
	return AnchorHeuristic{
		TextKeywords:  []string{"下载", "PDF"},
		HrefMarkers:   []string{".pdf", "download"},
		MaxTextLength: 30,
	}
}

// AnchorExtractor accepts the first short anchor whose text carries a keyword and
// whose href carries a marker (markers compare case-insensitively).
func AnchorExtractor(h AnchorHeuristic) LinkExtractor {
	return func(page string) (string, bool) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			return "", false
		}

		var found string
		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			text := strings.TrimSpace(a.Text())
			if h.MaxTextLength > 0 && utf8.RuneCountInString(text) > h.MaxTextLength {
				return true
			}
			if !containsAny(text, h.TextKeywords) {
				return true
			}

			href, _ := a.Attr("href")
			if !containsAny(strings.ToLower(href), lowerAll(h.HrefMarkers)) {
				return true
			}

			found = href
			return false
		})

		return found, found != ""
	}
}

// RawPdfHrefExtractor accepts the first href attribute ending in ".pdf" anywhere in the page.
// The match is raw markup, so entities are decoded here.
func RawPdfHrefExtractor(page string) (string, bool) {
	m := pdfHrefExpr.FindStringSubmatch(page)
	if len(m) < 2 {
		return "", false
	}
	return html.UnescapeString(m[1]), true
}

// ExtractPdfLink tries each extractor in order and normalizes the first hit.
// Extractors return decoded hrefs.
func ExtractPdfLink(page, origin string, extractors ...LinkExtractor) (string, bool) {
	for _, extract := range extractors {
		link, ok := extract(page)
		if !ok || link == "" {
			continue
		}
		return AbsoluteURL(link, origin), true
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
