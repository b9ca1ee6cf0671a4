// Package server exposes report generation over HTTP. Exports are resolved
// inside a data directory and their normalized records are cached between
// requests.
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/hmnreport/internal/aggregate"
	"github.com/gyeh/hmnreport/internal/cache"
	"github.com/gyeh/hmnreport/internal/config"
	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	"github.com/gyeh/hmnreport/internal/parquetio"
	"github.com/gyeh/hmnreport/internal/rawread"
	"github.com/gyeh/hmnreport/internal/report"
	"github.com/gyeh/hmnreport/internal/source"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server handles report requests.
type Server struct {
	echo  *echo.Echo
	cfg   config.Config
	cache *cache.Cache
	log   zerolog.Logger

	encodeXLSX func(io.Writer, *report.Report) error
}

// ReportRequest is the body of POST /api/v1/reports. File is relative to the
// data directory.
type ReportRequest struct {
	Kind      string `json:"kind"`
	File      string `json:"file"`
	TopN      int    `json:"top_n"`
	Partition string `json:"partition"`
	Format    string `json:"format"` // "json" (default) or "xlsx"
}

// KindInfo describes a supported export layout.
type KindInfo struct {
	Kind     model.Kind    `json:"kind"`
	Width    int           `json:"width"`
	SkipRows int           `json:"skip_rows"`
	Fields   []model.Field `json:"fields"`
}

// New builds a server over cfg.DataDir.
func New(cfg config.Config, log zerolog.Logger) *Server {
	opts := rawread.Options{Encoding: cfg.Encoding, Comma: cfg.CommaRune(), Sheet: cfg.Sheet}
	s := &Server{
		cfg:        cfg,
		log:        log,
		encodeXLSX: report.EncodeXLSX,
		cache: cache.New(cfg.CacheEntries, func(path string, kind model.Kind) ([]model.Record, error) {
			return source.Load(path, kind, opts)
		}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(Recovery(log))
	e.Use(RequestID())
	e.Use(Logger(log))

	e.GET("/healthz", s.health)
	v1 := e.Group("/api/v1")
	v1.GET("/kinds", s.kinds)
	v1.GET("/dimensions", s.dimensions)
	v1.POST("/reports", s.createReport)

	s.echo = e
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Str("data_dir", s.cfg.DataDir).Msg("listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	hits, misses, size := s.cache.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"cache":  map[string]int{"hits": hits, "misses": misses, "entries": size},
	})
}

func (s *Server) kinds(c echo.Context) error {
	out := make([]KindInfo, 0, len(model.AllKinds))
	for _, k := range model.AllKinds {
		l, _ := model.LayoutFor(k)
		out = append(out, KindInfo{Kind: k, Width: l.Width, SkipRows: l.SkipRows, Fields: l.Fields})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) dimensions(c echo.Context) error {
	out := make(map[aggregate.Dimension]string, len(aggregate.AllDimensions))
	for _, d := range aggregate.AllDimensions {
		out[d] = d.Title()
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createReport(c echo.Context) error {
	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	kind, ok := model.ParseKind(req.Kind)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown kind: "+req.Kind)
	}
	if req.Format == "" {
		req.Format = "json"
	}
	if req.Format != "json" && req.Format != "xlsx" {
		return echo.NewHTTPError(http.StatusBadRequest, "format must be json or xlsx")
	}
	if req.File == "" || !filepath.IsLocal(req.File) {
		return echo.NewHTTPError(http.StatusBadRequest, "file must be a relative path inside the data directory")
	}

	cfg := s.cfg
	cfg.TopN = req.TopN
	cfg.Partition = req.Partition
	profile, err := cfg.Profile(kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	records, err := s.cache.Get(filepath.Join(s.cfg.DataDir, req.File), kind)
	if err != nil {
		return loadError(err)
	}

	rep := report.Build(records, profile)
	if req.Format == "xlsx" {
		// Build the whole workbook before committing to a 200.
		var buf bytes.Buffer
		if err := s.encodeXLSX(&buf, rep); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+string(kind)+`.xlsx"`)
		return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
	}
	return c.JSON(http.StatusOK, rep)
}

// loadError maps a load failure to its HTTP status.
func loadError(err error) error {
	var (
		sm *normalize.SchemaMismatchError
		dp *normalize.DateParseError
		ia *normalize.InvalidAgeError
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	case errors.As(err, &sm), errors.As(err, &dp), errors.As(err, &ia),
		errors.Is(err, source.ErrKindMismatch), errors.Is(err, parquetio.ErrSchema):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
