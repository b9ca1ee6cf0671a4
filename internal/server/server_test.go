package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/tealeg/xlsx/v3"

	"github.com/gyeh/hmnreport/internal/aggregate"
	"github.com/gyeh/hmnreport/internal/config"
	"github.com/gyeh/hmnreport/internal/report"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{DataDir: "../../testdata", Encoding: "auto", CacheEntries: 4}
	return New(cfg, zerolog.Nop())
}

func postReport(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestKinds(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kinds", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var kinds []KindInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &kinds); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(kinds) != 5 {
		t.Errorf("got %d kinds, want 5", len(kinds))
	}
}

func TestCreateReportJSON(t *testing.T) {
	s := newTestServer(t)
	rec := postReport(t, s, `{"kind":"emergencias","file":"emergencias.csv","top_n":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Records != 12 {
		t.Errorf("records = %d, want 12", rep.Records)
	}
	for _, tbl := range rep.Tables {
		d := tbl.Ranked.Dimension
		if (d == aggregate.DimStaff || d == aggregate.DimDiagnosisCode) && len(tbl.Ranked.Entries) > 3 {
			t.Errorf("table %q has %d entries with top_n 3", tbl.Title, len(tbl.Ranked.Entries))
		}
	}

	// Second request is served from cache.
	postReport(t, s, `{"kind":"emergency","file":"emergencias.csv"}`)
	if hits, _, _ := s.cache.Stats(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestCreateReportXLSX(t *testing.T) {
	s := newTestServer(t)
	rec := postReport(t, s, `{"kind":"emergency","file":"emergencias.csv","format":"xlsx"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	wb, err := xlsx.OpenBinary(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	if _, ok := wb.Sheet["Resumen"]; !ok {
		t.Error("workbook has no summary sheet")
	}
}

func TestCreateReportXLSXFailure(t *testing.T) {
	s := newTestServer(t)
	s.encodeXLSX = func(w io.Writer, _ *report.Report) error {
		w.Write([]byte("PK"))
		return errors.New("add sheet: invalid name")
	}
	rec := postReport(t, s, `{"kind":"emergency","file":"emergencias.csv","format":"xlsx"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); strings.HasPrefix(ct, xlsxContentType) {
		t.Errorf("failed workbook served as %q", ct)
	}
	if strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("partial workbook leaked into the response")
	}
}

func TestCreateReportErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown kind", `{"kind":"pharmacy","file":"emergencias.csv"}`, http.StatusBadRequest},
		{"bad format", `{"kind":"emergency","file":"emergencias.csv","format":"pdf"}`, http.StatusBadRequest},
		{"escape", `{"kind":"emergency","file":"../go.mod"}`, http.StatusBadRequest},
		{"absolute", `{"kind":"emergency","file":"/etc/passwd"}`, http.StatusBadRequest},
		{"bad partition", `{"kind":"emergency","file":"emergencias.csv","partition":"colour"}`, http.StatusBadRequest},
		{"missing", `{"kind":"emergency","file":"nope.csv"}`, http.StatusNotFound},
		{"wrong layout", `{"kind":"emergency","file":"ambulatorio_latin1.csv"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postReport(t, s, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRequestIDPreserved(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("X-Request-ID = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	h := Recovery(zerolog.New(&buf))(func(echo.Context) error { panic("boom") })

	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", err)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}
