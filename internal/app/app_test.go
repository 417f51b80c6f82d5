package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"BulletinScraper/internal/config"
)

func gb18030(t *testing.T, s string) string {
	t.Helper()
	out, err := simplifiedchinese.GB18030.NewEncoder().String(s)
	require.NoError(t, err)
	return out
}

// fakeSina serves the suggestion, listing, detail and document endpoints.
func fakeSina(t *testing.T, detailHits *int32) *httptest.Server {
	t.Helper()

	listings := map[string]string{
		"vCB_Bulletin": `<div class="datelist"><ul>
2023-04-29&nbsp;<a href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=200'>浦发银行2022年年度报告</a><br>
2024-03-29&nbsp;<a href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=300'>浦发银行2023年年度报告</a><br>
</ul></div>`,
		"vCB_BulletinYi": `<div class="datelist"><ul>
2024-04-27&nbsp;<a href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=310'>浦发银行2024年第一季度报告</a><br>
2024-03-29&nbsp;<a href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=300'>浦发银行2023年年度报告</a><br>
</ul></div>`,
	}

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/suggest/"):
			body := `var suggestvalue="浦发银行,11,600000,sh600000,浦发银行,,浦发银行,99,1";`
			out, _ := simplifiedchinese.GBK.NewEncoder().String(body)
			io.WriteString(w, out)
		case strings.HasPrefix(r.URL.Path, "/corp/go.php/"):
			parts := strings.Split(r.URL.Path, "/")
			page, ok := listings[parts[3]]
			if !ok {
				http.Error(w, "gone", http.StatusServiceUnavailable)
				return
			}
			io.WriteString(w, gb18030(t, page))
		case r.URL.Path == "/corp/view/vCB_AllBulletinDetail.php":
			atomic.AddInt32(detailHits, 1)
			if r.URL.Query().Get("id") != "300" {
				io.WriteString(w, "<html><body>no attachment</body></html>")
				return
			}
			io.WriteString(w, gb18030(t, `<a href="/files/600000_300.pdf">下载公告</a>`))
		case r.URL.Path == "/files/600000_300.pdf":
			if !strings.Contains(r.Referer(), "vCB_AllBulletinDetail.php") {
				http.Error(w, "referer required", http.StatusForbidden)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			io.WriteString(w, "%PDF-1.7 annual report")
		default:
			http.NotFound(w, r)
		}
	}))
	return srv
}

func testConfig(base string) config.Config {
	return config.Config{
		Server: config.ServerConfig{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second, ShutdownTimeout: time.Second},
		Upstream: config.UpstreamConfig{
			SuggestURL:     base + "/suggest",
			ListBaseURL:    base,
			DetailBaseURL:  base,
			UserAgent:      "test-agent",
			AcceptLanguage: "zh-CN",
		},
		Timeouts: config.TimeoutConfig{Suggest: time.Second, Listing: time.Second, Detail: time.Second, PDF: time.Second},
		PdfLink: config.PdfLinkConfig{
			TextKeywords:  []string{"下载", "PDF"},
			HrefMarkers:   []string{".pdf", "download"},
			MaxTextLength: 30,
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListAllReportsEndToEnd(t *testing.T) {
	t.Parallel()

	var hits int32
	upstream := fakeSina(t, &hits)
	defer upstream.Close()

	h := New(testConfig(upstream.URL), quietLogger()).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?query=600000&report_type=all", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		StockID string `json:"stock_id"`
		Name    string `json:"stock_name"`
		Reports []struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "600000", body.StockID)
	assert.Equal(t, "浦发银行", body.Name)
	require.Len(t, body.Reports, 3)
	assert.Equal(t, "310", body.Reports[0].ID)
	assert.Equal(t, "300", body.Reports[1].ID)
	assert.Equal(t, "200", body.Reports[2].ID)
}

func TestAnnualReportsSortedAndFiltered(t *testing.T) {
	t.Parallel()

	var hits int32
	upstream := fakeSina(t, &hits)
	defer upstream.Close()

	h := New(testConfig(upstream.URL), quietLogger()).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?query=600000&report_type=%E5%B9%B4%E6%8A%A5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"report_type":"ndbg"`)
	assert.Less(t, strings.Index(rec.Body.String(), "2024-03-29"), strings.Index(rec.Body.String(), "2023-04-29"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?query=600000&report_type=ndbg&year=2022", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"200"`)
	assert.NotContains(t, rec.Body.String(), `"id":"300"`)
}

func TestPdfProxyEndToEnd(t *testing.T) {
	t.Parallel()

	var hits int32
	upstream := fakeSina(t, &hits)
	defer upstream.Close()

	h := New(testConfig(upstream.URL), quietLogger()).Handler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report/pdf?stock_id=600000&bulletin_id=300&title=2023%E5%B9%B4%E6%8A%A5", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "%PDF-1.7 annual report", rec.Body.String())
		assert.Equal(t, "attachment; filename*=UTF-8''2023%E5%B9%B4%E6%8A%A5.pdf", rec.Header().Get("Content-Disposition"))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "resolved link is cached")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report/pdf?stock_id=600000&bulletin_id=999", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, upstream.URL+"/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=999", rec.Header().Get("Location"))
}
