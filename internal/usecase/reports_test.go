package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BulletinScraper/internal/domain"
)

type fakeResolver struct {
	stock domain.StockInfo
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, query string) (domain.StockInfo, error) {
	f.calls++
	if f.err != nil {
		return domain.StockInfo{}, f.err
	}
	if f.stock.Code == "" {
		return domain.StockInfo{Code: query, Name: query}, nil
	}
	return f.stock, nil
}

type fakeSource struct {
	items       []domain.BulletinItem
	err         error
	lastFetched domain.ReportCategory
	fetchAll    bool
}

func (f *fakeSource) Fetch(_ context.Context, _ string, category domain.ReportCategory) ([]domain.BulletinItem, error) {
	f.lastFetched = category
	return f.items, f.err
}

func (f *fakeSource) FetchAll(_ context.Context, _ string) ([]domain.BulletinItem, error) {
	f.fetchAll = true
	return f.items, f.err
}

func TestListReportsSingleCategory(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{stock: domain.StockInfo{Code: "600000", Name: "浦发银行", Symbol: "sh600000"}}
	source := &fakeSource{items: []domain.BulletinItem{
		{ID: "2", Title: "浦发银行2023年年度报告", Date: "2024-03-29", ReportYear: "2023"},
		{ID: "1", Title: "浦发银行2022年年度报告", Date: "2023-04-29", ReportYear: "2022"},
	}}
	svc := NewReportService(ReportsDeps{Resolver: resolver, Source: source})

	list, err := svc.ListReports(context.Background(), ListQuery{Query: "600000", ReportType: "年报"})
	require.NoError(t, err)

	assert.Equal(t, "600000", list.StockCode)
	assert.Equal(t, "浦发银行", list.StockName)
	assert.Equal(t, domain.CategoryAnnual, list.ReportType)
	assert.Equal(t, "年报", list.ReportTypeLabel)
	assert.Nil(t, list.Year)
	assert.Len(t, list.Reports, 2)
	assert.Equal(t, domain.CategoryAnnual, source.lastFetched)
	assert.False(t, source.fetchAll)
}

func TestListReportsAllUsesAggregator(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	svc := NewReportService(ReportsDeps{Resolver: &fakeResolver{}, Source: source})

	for _, token := range []string{"all", "ALL", "全部", "全部类型"} {
		list, err := svc.ListReports(context.Background(), ListQuery{Query: "600000", ReportType: token})
		require.NoError(t, err, token)
		assert.Equal(t, domain.CategoryAll, list.ReportType)
		assert.Equal(t, "全部类型", list.ReportTypeLabel)
		assert.NotNil(t, list.Reports, "reports must encode as an empty array")
	}
	assert.True(t, source.fetchAll)
}

func TestListReportsYearFilter(t *testing.T) {
	t.Parallel()

	source := &fakeSource{items: []domain.BulletinItem{
		{ID: "3", Date: "2025-04-01", ReportYear: "2024"},
		{ID: "2", Date: "2024-04-01", ReportYear: "2023"},
		{ID: "1", Date: "2024-03-01", ReportYear: "2023"},
		{ID: "0", Date: "2023-08-30"},
	}}
	svc := NewReportService(ReportsDeps{Resolver: &fakeResolver{}, Source: source})

	list, err := svc.ListReports(context.Background(), ListQuery{Query: "600000", ReportType: "ndbg", Year: 2023})
	require.NoError(t, err)
	require.NotNil(t, list.Year)
	assert.Equal(t, 2023, *list.Year)

	ids := make([]string, 0, len(list.Reports))
	for _, r := range list.Reports {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2", "1", "0"}, ids)
}

func TestListReportsValidation(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{err: domain.InvalidInput("请输入股票代码或名称")}
	svc := NewReportService(ReportsDeps{Resolver: resolver, Source: &fakeSource{}})

	_, err := svc.ListReports(context.Background(), ListQuery{Query: "600000", ReportType: "weekly"})
	assert.ErrorIs(t, err, domain.ErrUnsupported)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "不支持的报告类型", domain.Message(err))

	_, err = svc.ListReports(context.Background(), ListQuery{Query: "600000", ReportType: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, resolver.calls, "report type is validated before resolving the stock")

	_, err = svc.ListReports(context.Background(), ListQuery{Query: " ", ReportType: "weekly"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "请输入股票代码或名称", domain.Message(err), "blank query is checked first")
}

func TestListReportsPropagatesFailures(t *testing.T) {
	t.Parallel()

	svc := NewReportService(ReportsDeps{
		Resolver: &fakeResolver{err: domain.NotFound("未找到匹配的股票")},
		Source:   &fakeSource{},
	})
	_, err := svc.ListReports(context.Background(), ListQuery{Query: "nothing", ReportType: "q3"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	svc = NewReportService(ReportsDeps{
		Resolver: &fakeResolver{},
		Source:   &fakeSource{err: errors.New("no scanner")},
	})
	_, err = svc.ListReports(context.Background(), ListQuery{Query: "600000", ReportType: "q3"})
	assert.Error(t, err)
}

func TestFilterByYearZeroKeepsAll(t *testing.T) {
	t.Parallel()

	items := []domain.BulletinItem{{ID: "a", Date: "2020-01-01"}, {ID: "b", Date: "2021-01-01"}}
	assert.Len(t, FilterByYear(items, 0), 2)
	assert.NotNil(t, FilterByYear(nil, 2020))
	assert.Empty(t, FilterByYear(nil, 2020))
}
