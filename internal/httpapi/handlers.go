package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"BulletinScraper/internal/domain"
	"BulletinScraper/internal/usecase"
)

const pdfChunkSize = 128 << 10

type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := usecase.ListQuery{
		Query:      params.Get("query"),
		ReportType: params.Get("report_type"),
	}
	if raw := strings.TrimSpace(params.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Detail: "年份格式错误"})
			return
		}
		q.Year = year
	}

	list, err := s.reports.ListReports(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleReportPdf(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	resp, err := s.pdf.Stream(r.Context(), usecase.PdfRequest{
		StockCode:  params.Get("stock_id"),
		BulletinID: params.Get("bulletin_id"),
		Title:      params.Get("title"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if resp.Document == nil {
		http.Redirect(w, r, resp.RedirectURL, http.StatusTemporaryRedirect)
		return
	}

	doc := resp.Document
	defer doc.Body.Close()

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", usecase.ContentDisposition(doc.Filename))
	if doc.ContentLength > 0 {
		h.Set("Content-Length", strconv.FormatInt(doc.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	written, err := io.CopyBuffer(w, doc.Body, make([]byte, pdfChunkSize))
	if err != nil {
		s.logger.Warn("pdf stream interrupted",
			"file", doc.Filename,
			"sent", humanize.Bytes(uint64(written)),
			"error", err,
			"request_id", RequestID(r.Context()),
		)
		return
	}
	s.logger.Info("pdf streamed",
		"file", doc.Filename,
		"size", humanize.Bytes(uint64(written)),
		"request_id", RequestID(r.Context()),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := domain.Message(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
		detail = "服务器内部错误"
	}
	writeJSON(w, status, errorBody{Detail: detail})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
