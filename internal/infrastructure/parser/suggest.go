// Package parser turns raw upstream pages into domain values.
// There is one parser per page type, so a layout change stays local to its file.
package parser

import (
	"regexp"
	"strings"

	"BulletinScraper/internal/domain"
)

var (
	suggestExpr   = regexp.MustCompile(`var\s+suggestvalue\s*=\s*"(.*?)"`)
	stockCodeExpr = regexp.MustCompile(`^\d{6}$`)
)

// IsStockCode reports whether s is exactly six ASCII digits.
func IsStockCode(s string) bool {
	return stockCodeExpr.MatchString(s)
}

// ParseSuggest extracts candidate records from the suggestion script.
// Each record is split into its comma-delimited fields.
func ParseSuggest(text string) [][]string {
	match := suggestExpr.FindStringSubmatch(text)
	if len(match) < 2 {
		return nil
	}

	payload := strings.TrimSpace(match[1])
	if payload == "" {
		return nil
	}

	var entries [][]string
	for _, raw := range strings.Split(payload, ";") {
		if raw == "" {
			continue
		}
		entries = append(entries, strings.Split(raw, ","))
	}
	return entries
}

// PickStock returns the first candidate whose third field is a six-digit code.
func PickStock(entries [][]string) (domain.StockInfo, bool) {
	for _, fields := range entries {
		if len(fields) < 4 || !IsStockCode(fields[2]) {
			continue
		}

		name := ""
		if len(fields) > 4 && strings.TrimSpace(fields[4]) != "" {
			name = strings.TrimSpace(fields[4])
		} else if len(fields) > 6 && strings.TrimSpace(fields[6]) != "" {
			name = strings.TrimSpace(fields[6])
		}
		if name == "" {
			name = fields[0]
		}
		if name == "" {
			name = fields[2]
		}

		return domain.StockInfo{
			Code:   fields[2],
			Name:   name,
			Symbol: fields[3],
		}, true
	}
	return domain.StockInfo{}, false
}
