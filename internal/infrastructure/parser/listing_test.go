package parser

import "testing"

const listingPage = `
<html><body>
<div class="tagmain">
<div class="datelist"><ul>
2024-03-29&nbsp;<a target='_blank' href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&amp;id=9876543'>浦发银行2023年年度报告</a><br>
2023-04-29&nbsp;<a target='_blank' href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=8765432'>浦发银行2022年年度报告摘要</a><br>
2022-13-45&nbsp;<a target='_blank' href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=1'>broken date</a><br>
2021-04-30&nbsp;<a target='_blank' href='https://static.example.com/report.html'>年度报告 2020 &amp; 更正</a><br>
</ul></div>
<div class="datelist"><ul>
2019-01-01&nbsp;<a href='/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=5'>second block</a>
</ul></div>
</div>
</body></html>`

func TestDatelistParserParse(t *testing.T) {
	t.Parallel()

	p := DatelistParser{DetailOrigin: "https://vip.stock.finance.sina.com.cn"}
	items := p.Parse(listingPage)

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(items), items)
	}

	first := items[0]
	if first.ID != "9876543" {
		t.Fatalf("unexpected id: %s", first.ID)
	}
	if first.DetailURL != "https://vip.stock.finance.sina.com.cn/corp/view/vCB_AllBulletinDetail.php?stockid=600000&id=9876543" {
		t.Fatalf("unexpected detail url: %s", first.DetailURL)
	}
	if first.Date != "2024-03-29" || first.ReportYear != "2023" {
		t.Fatalf("unexpected date/year: %s/%s", first.Date, first.ReportYear)
	}
	if first.Title != "浦发银行2023年年度报告" {
		t.Fatalf("unexpected title: %s", first.Title)
	}

	third := items[2]
	if third.ID != "" {
		t.Fatalf("expected empty id, got %s", third.ID)
	}
	if third.DetailURL != "https://static.example.com/report.html" {
		t.Fatalf("absolute url should be kept: %s", third.DetailURL)
	}
	if third.ReportYear != "2020" {
		t.Fatalf("expected bare year token, got %s", third.ReportYear)
	}
	if third.Title != "年度报告 2020 & 更正" {
		t.Fatalf("title should be unescaped: %s", third.Title)
	}
}

func TestDatelistParserMissingBlock(t *testing.T) {
	t.Parallel()

	p := DatelistParser{DetailOrigin: "https://vip.stock.finance.sina.com.cn"}
	if items := p.Parse(`<html><body><div class="other">nothing</div></body></html>`); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if items := p.Parse(`<div class="datelist">layout changed</div>`); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestReportYear(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title, date, want string
	}{
		{"2023年年度报告", "2024-03-29", "2023"},
		{"关于2021年度及2022年第一季度", "2022-04-28", "2021"},
		{"annual report 2019", "2020-04-01", "2019"},
		{"编号20230001公告", "2023-05-05", "2023"},
		{"第一季度报告", "2024-04-30", "2024"},
		{"", "", ""},
	}

	for _, tc := range cases {
		if got := ReportYear(tc.title, tc.date); got != tc.want {
			t.Fatalf("ReportYear(%q, %q) = %q, want %q", tc.title, tc.date, got, tc.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	origin := "https://vip.stock.finance.sina.com.cn"
	if got := AbsoluteURL("/a.pdf", origin); got != origin+"/a.pdf" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := AbsoluteURL("//file.finance.sina.com.cn/a.pdf", origin); got != "https://file.finance.sina.com.cn/a.pdf" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := AbsoluteURL("http://x/a.pdf", origin); got != "http://x/a.pdf" {
		t.Fatalf("unexpected: %s", got)
	}
}
