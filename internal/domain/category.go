package domain

import "strings"

// ReportCategory enumerates periodic filing types plus the "all" wildcard.
type ReportCategory string

const (
	CategoryAnnual  ReportCategory = "ndbg"
	CategoryQ1      ReportCategory = "yjdbg"
	CategoryInterim ReportCategory = "zqbg"
	CategoryQ3      ReportCategory = "sjdbg"
	CategoryAll     ReportCategory = "all"
)

var categoryTokens = map[string]ReportCategory{
	"ndbg":  CategoryAnnual,
	"yjdbg": CategoryQ1,
	"zqbg":  CategoryInterim,
	"sjdbg": CategoryQ3,
	"all":   CategoryAll,

	"annual": CategoryAnnual,
	"q1":     CategoryQ1,
	"half":   CategoryInterim,
	"q3":     CategoryQ3,

	"年报":   CategoryAnnual,
	"一季报":  CategoryQ1,
	"中报":   CategoryInterim,
	"半年报":  CategoryInterim,
	"三季报":  CategoryQ3,
	"全部":   CategoryAll,
	"全部类型": CategoryAll,
}

var categoryLabels = map[ReportCategory]string{
	CategoryAnnual:  "年报",
	CategoryQ1:      "一季报",
	CategoryInterim: "中报",
	CategoryQ3:      "三季报",
	CategoryAll:     "全部类型",
}

// ConcreteCategories lists every fetchable category in aggregation order.
func ConcreteCategories() []ReportCategory {
	return []ReportCategory{CategoryAnnual, CategoryQ1, CategoryInterim, CategoryQ3}
}

// ParseCategory normalizes a user token (code, English alias or Chinese label).
// ASCII forms are matched case-insensitively, CJK forms exactly.
func ParseCategory(token string) (ReportCategory, error) {
	key := strings.TrimSpace(token)
	if key == "" {
		return "", InvalidInput("报告类型不能为空")
	}
	if c, ok := categoryTokens[strings.ToLower(key)]; ok {
		return c, nil
	}
	if c, ok := categoryTokens[key]; ok {
		return c, nil
	}
	return "", Unsupported("不支持的报告类型")
}

// Label returns the Chinese display label, or the raw code when unknown.
func (c ReportCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c ReportCategory) String() string {
	return string(c)
}
