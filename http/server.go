// Package http provides the HTTP transport for the search assistant.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fedsearch/fedreg"
	"github.com/fedsearch/fedreg/agent"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// Server serves the chat and debug endpoints over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	Addr string

	Agent     *agent.Agent
	Documents fedreg.DocumentService
	Logger    *slog.Logger
}

// NewServer creates a Server with routes registered.
func NewServer(a *agent.Agent, docs fedreg.DocumentService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Addr:      DefaultAddr,
		Agent:     a,
		Documents: docs,
		Logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Get("/debug/search", s.handleDebugSearch)

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open begins listening on s.Addr and serves until Close.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		s.Logger.Info("http server starting", "addr", s.Addr)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type chatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	stats, err := s.Documents.Stats(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: fedreg.ErrorMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": stats.TotalDocuments,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message required"})
		return
	}

	resp := s.Agent.Handle(r.Context(), fedreg.Query{
		Text:           req.Message,
		ConversationID: req.ChatID,
	})

	writeJSON(w, http.StatusOK, chatResponse{
		Response: resp.Text,
		ChatID:   resp.ConversationID,
	})
}

func (s *Server) handleDebugSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q required"})
		return
	}

	docs, err := s.Documents.SearchDocuments(r.Context(), fedreg.SearchFilter{
		Query:  query,
		Agency: strings.TrimSpace(r.URL.Query().Get("agency")),
	})
	if err != nil {
		writeJSON(w, errorStatus(err), errorResponse{Error: fedreg.ErrorMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(docs),
		"results": docs,
	})
}

func errorStatus(err error) int {
	switch fedreg.ErrorCode(err) {
	case fedreg.EINVALID:
		return http.StatusBadRequest
	case fedreg.ENOTFOUND:
		return http.StatusNotFound
	case fedreg.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
