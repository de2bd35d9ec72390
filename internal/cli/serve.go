package cli

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/palladiosimulator/pcmuml/pkg/buildinfo"
	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	modelio "github.com/palladiosimulator/pcmuml/pkg/io"
	"github.com/palladiosimulator/pcmuml/pkg/observability"
	"github.com/palladiosimulator/pcmuml/pkg/pipeline"
)

const (
	// maxBodyBytes limits the size of a posted bundle.
	maxBodyBytes = 8 << 20

	requestIDHeader   = "X-Request-ID"
	diagnosticsHeader = "X-Dropped-Elements"

	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command that renders posted bundles.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP endpoint that renders posted model bundles",
		Long: `Serve listens for bundles posted to /render/{kind} and answers with the
PlantUML text of every root of that kind.

The body format is taken from the Content-Type header (application/json,
application/yaml or application/toml). Query parameters:
  raw=true   omit @startuml/@enduml
  uri=...    model location used for hyperlinks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.config().Serve.Addr
			}
			ctx := cmd.Context()
			handler := newServer(c.newRunner(ctx), c.config().PipelineOptions(), loggerFromContext(ctx)).routes()
			return c.listenAndServe(ctx, addr, handler)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":8080\")")

	return cmd
}

// listenAndServe serves handler on addr until ctx is done, then shuts the
// server down gracefully.
func (c *CLI) listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	printSuccess(c.Out, "Serving on %s", StyleLink.Render("http://"+ln.Addr().String()))
	printKeyValue(c.Out, "render", "POST /render/{component,system,allocation}")
	printKeyValue(c.Out, "health", "GET /healthz")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		printDetail(c.Out, "Server stopped")
		return nil
	}
}

// =============================================================================
// Server
// =============================================================================

// server renders bundles received over HTTP.
type server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *server {
	return &server{runner: runner, base: base, logger: logger}
}

// routes builds the chi router with all middleware and endpoints.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render/{kind}", s.handleRender)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok "+buildinfo.Short()+"\n")
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if err := perrors.ValidateDiagramKind(kind); err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}

	format, err := modelio.ParseFormat(r.Header.Get("Content-Type"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	opts := s.base
	opts.Kinds = []string{kind}
	if raw := r.URL.Query().Get("raw"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, perrors.New(perrors.ErrCodeInvalidInput, "invalid raw parameter %q", raw))
			return
		}
		opts.Raw = v
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	b, err := modelio.ReadBundle(body, format, modelio.WithURI(r.URL.Query().Get("uri")))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Render(r.Context(), b, opts)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if result.Stats.Roots == 0 {
		s.fail(w, r, http.StatusUnprocessableEntity, perrors.New(perrors.ErrCodeNotFound, "bundle has no %s root", kind))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(diagnosticsHeader, strconv.Itoa(len(result.Diagnostics)))
	for _, d := range result.Diagrams {
		if _, err := io.WriteString(w, d.Text); err != nil {
			s.logger.Warn("write response", "err", err)
			return
		}
	}
}

// fail writes the user-facing message of err with the given status.
func (s *server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Debug("request failed",
		"request_id", requestIDFrom(r.Context()),
		"status", status,
		"code", perrors.GetCode(err),
		"err", err)
	http.Error(w, perrors.UserMessage(err), status)
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// requestID tags each request with the client's X-Request-ID or a new UUID
// and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// requestIDFrom returns the request ID stored by requestID.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// logRequests logs every request and reports it to the HTTP hooks.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)

		s.logger.Info("request",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}
