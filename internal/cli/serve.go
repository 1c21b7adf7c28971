package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/buildinfo"
	"github.com/matzehuels/barstack/pkg/cache"
	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/observability"
	"github.com/matzehuels/barstack/pkg/pipeline"
)

const requestIDHeader = "X-Request-ID"

// serveCommand exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		scope   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout and render over HTTP",
		Long: `Serve layout and render over HTTP.

  POST /v1/layout            figure body, returns the JSON scene
  POST /v1/render?format=svg figure body, returns the artifact
  GET  /v1/stats             pipeline and cache counters
  GET  /healthz              liveness

Layout overrides and render options are query parameters with the same
names as the render flags (barmode, bargap, width, style, scale, ...).
Figures are only accepted inline; the server never fetches URLs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), scope, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&scope, "scope", "", "cache key prefix for shared caches")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, scope string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	if scope != "" {
		runner.Keyer = cache.NewScopedKeyer(nil, scope)
	}

	stats := observability.NewStats()
	observability.Install(observability.Tee(stats, observability.NewLogHooks(c.Logger)))

	s := &server{
		runner:   runner,
		stats:    stats,
		logger:   c.Logger,
		maxBody:  c.Config.Server.MaxBodyBytes,
		defaults: c.baseOptions(),
	}
	srv := &http.Server{
		Addr:              c.Config.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printInfo("Listening on %s", StyleValue.Render(c.Config.Server.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}

type server struct {
	runner   *pipeline.Runner
	stats    *observability.Stats
	logger   *log.Logger
	maxBody  int64
	defaults pipeline.Options
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.stats.Snapshot())
		})
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// requestID tags each request with a UUID, keeping one supplied by the
// client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	fig, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scene, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), fig, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !r.URL.Query().Has("records") {
		opts.Records = true
	}
	data, err := pipeline.RenderFormat(scene, pipeline.FormatJSON, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit))
	w.Header().Set("X-Scene-Hash", res.SceneHash)
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// options reads the figure body and the query overrides.
func (s *server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)
	opts.Logger = s.logger

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return opts, errs.New(errs.ErrCodeInvalidInput, "figure exceeds %d bytes", s.maxBody)
		}
		return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) == 0 {
		return opts, errs.New(errs.ErrCodeInvalidInput, "empty request body")
	}
	opts.Figure = body

	q := r.URL.Query()
	if v := q.Get("barmode"); v != "" {
		opts.BarMode = v
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	for _, f := range []struct {
		name string
		dst  **float64
	}{{"bargap", &opts.BarGap}, {"bargroupgap", &opts.BarGroupGap}} {
		if v := q.Get(f.name); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s: not a number: %q", f.name, v)
			}
			*f.dst = &x
		}
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}, {"scale", &opts.Scale}} {
		if v := q.Get(f.name); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s: not a number: %q", f.name, v)
			}
			*f.dst = x
		}
	}
	if v := q.Get("bins"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "bins: not an integer: %q", v)
		}
		opts.Bins = n
	}
	// Absent switches keep the configured defaults.
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"export", &opts.ForExport},
		{"titles", &opts.Titles},
		{"no_grid", &opts.NoGrid},
		{"records", &opts.Records},
		{"refresh", &opts.Refresh},
	} {
		if !q.Has(f.name) {
			continue
		}
		b, err := strconv.ParseBool(q.Get(f.name))
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "%s: not a boolean: %q", f.name, q.Get(f.name))
		}
		*f.dst = b
	}
	return opts, nil
}

type errorResponse struct {
	Code      errs.Code `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "id", middleware.GetReqID(r.Context()))
	}
	msg := errs.UserMessage(err)
	if code == errs.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}
