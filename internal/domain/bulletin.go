package domain

// StockInfo is a resolved A-share listing.
type StockInfo struct {
	Code   string
	Name   string
	Symbol string
}

// BulletinItem is a single disclosure entry scraped from a listing page.
type BulletinItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	DetailURL  string `json:"detail_url"`
	ReportYear string `json:"report_year"`
}

// Key identifies a bulletin across categories: the id when known, else its detail URL.
func (b BulletinItem) Key() string {
	if b.ID != "" {
		return b.ID
	}
	return b.DetailURL
}

// Year returns the report year, falling back to the year of the publication date.
func (b BulletinItem) Year() string {
	if b.ReportYear != "" {
		return b.ReportYear
	}
	if len(b.Date) >= 4 {
		return b.Date[:4]
	}
	return ""
}

// ReportList is the result of a listing query.
type ReportList struct {
	StockCode       string         `json:"stock_id"`
	StockName       string         `json:"stock_name"`
	Symbol          string         `json:"symbol,omitempty"`
	ReportType      ReportCategory `json:"report_type"`
	ReportTypeLabel string         `json:"report_type_label"`
	Year            *int           `json:"year"`
	Reports         []BulletinItem `json:"reports"`
}
