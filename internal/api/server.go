package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Version is reported by /healthz.
var Version = "dev"

// NewRouter wires the read-only board endpoints.
func NewRouter(store *Store) *chi.Mux {
	h := &handler{store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)
	r.Route("/api/board", func(r chi.Router) {
		r.Get("/", h.listBoards)
		r.Get("/{person}", h.getBoard)
	})
	return r
}

type handler struct {
	store *Store
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	updated, errText, stale := h.store.status()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   config.AppName,
		Version:   Version,
		UpdatedAt: formatTime(updated),
		Stale:     stale,
		Error:     errText,
	})
}

func (h *handler) listBoards(w http.ResponseWriter, _ *http.Request) {
	boards, updated := h.store.Boards()
	resp := BoardsResponse{UpdatedAt: formatTime(updated), Boards: make([]BoardDTO, 0, len(boards))}
	for _, b := range boards {
		resp.Boards = append(resp.Boards, toBoardDTO(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getBoard(w http.ResponseWriter, r *http.Request) {
	person := chi.URLParam(r, "person")
	b, ok := h.store.Board(person)
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toBoardDTO(b))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// requestLogger sends access logs to the file logger; the terminal belongs
// to the board.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		util.Logger().Info("http request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// Server runs the router on addr until Shutdown.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, store *Store) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start listens in the background. Listen errors other than a clean shutdown
// are logged.
func (s *Server) Start() {
	go func() {
		util.Logger().Info("status api listening", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.LogError("status api", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
