// Package server exposes the evaluator over HTTP: a JSON endpoint, a form
// page for browsers, and a health check.
package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/julienschmidt/httprouter"

	"github.com/zephyrtronium/arith"
	"github.com/zephyrtronium/arith/internal/present"
)

// maxBody bounds the size of a request body.
const maxBody = 1 << 20

// Config configures a Server.
type Config struct {
	// Addr is the TCP address to listen on, e.g. ":8000".
	Addr string
	// MaxDepth limits expression nesting. Zero means arith.DefaultMaxDepth.
	MaxDepth int
	// Examples are the expressions listed on the form page. Nil means
	// DefaultExamples.
	Examples []string
	// Logger receives request and error logs. Nil discards them.
	Logger *slog.Logger
}

// Server provides the HTTP interface to the evaluator.
type Server struct {
	cfg    Config
	log    *slog.Logger
	router *httprouter.Router
	opts   []arith.ParseOption
	page   *template.Template
}

// New creates a server with routes installed. It does not listen until Run.
func New(cfg Config) *Server {
	if cfg.Examples == nil {
		cfg.Examples = DefaultExamples
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:    cfg,
		log:    cfg.Logger,
		router: httprouter.New(),
		opts:   []arith.ParseOption{arith.MaxDepth(cfg.MaxDepth)},
		page:   template.Must(template.New("index").Parse(indexHTML)),
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/evaluate", s.handleEvaluate)
	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.log.Error("handler panic", slog.String("path", r.URL.Path), slog.Any("panic", v))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// evaluate runs the evaluator with the server's parse options.
func (s *Server) evaluate(expr string) (float64, error) {
	return arith.EvalString(expr, s.opts...)
}

type evalRequest struct {
	Expression *string `json:"expression"`
}

type evalResponse struct {
	Expression string `json:"expression"`
	Result     any    `json:"result"`
}

type errorResponse struct {
	Detail string     `json:"detail"`
	Kind   arith.Kind `json:"kind,omitzero"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req evalRequest
	if err := json.UnmarshalRead(http.MaxBytesReader(w, r.Body, maxBody), &req); err != nil {
		s.log.Debug("bad request body", slog.String("remote", r.RemoteAddr), slog.Any("err", err))
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	if req.Expression == nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "missing field: expression"})
		return
	}
	expr := *req.Expression
	s.log.Debug("evaluate", slog.String("remote", r.RemoteAddr), slog.String("expression", expr))
	v, err := s.evaluate(expr)
	if err != nil {
		s.log.Info("evaluation failed", slog.String("expression", expr), slog.Any("err", err))
		resp := errorResponse{Detail: err.Error()}
		var e *arith.Error
		if errors.As(err, &e) {
			resp.Kind = e.Kind
		}
		s.writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		s.log.Info("non-finite result", slog.String("expression", expr), slog.Float64("result", v))
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "result is not finite: " + present.String(v)})
		return
	}
	s.writeJSON(w, http.StatusOK, evalResponse{Expression: expr, Result: present.Number(v)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v); err != nil {
		s.log.Error("writing response", slog.Any("err", err))
	}
}
