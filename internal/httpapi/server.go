package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avelarde/chatbridge/internal/chat"
	"github.com/avelarde/chatbridge/internal/config"
	"github.com/avelarde/chatbridge/internal/observability"
)

// TurnHandler is the correlator capability the HTTP surface depends on.
type TurnHandler interface {
	HandleTurn(ctx context.Context, turn chat.Turn) (string, error)
}

type Server struct {
	cfg       config.Config
	correlate TurnHandler
}

func New(cfg config.Config, correlate TurnHandler) *Server {
	return &Server{cfg: cfg, correlate: correlate}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("up"))
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/messages", s.handleMessages)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	err := s.cfg.ValidateProvider()
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, map[string]any{
		"status":    "ok",
		"provider":  s.cfg.Provider,
		"config_ok": err == nil,
	})
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
}

// handleChat is the direct JSON endpoint: {user_id?, message} in, {reply} out.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "missing_message", "field 'message' is required")
		return
	}

	userKey := strings.TrimSpace(req.UserID)
	if userKey == "" {
		userKey = strings.TrimSpace(r.Header.Get("X-User-Id"))
	}
	if userKey == "" {
		userKey = "anonymous"
	}

	reply, err := s.correlate.HandleTurn(r.Context(), chat.Turn{UserKey: userKey, Text: req.Message})
	if err != nil {
		respondJSON(w, http.StatusBadGateway, chatResponse{
			Reply:    chat.ReplyFor(err),
			Provider: s.cfg.Provider,
		})
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Reply: reply, Provider: s.cfg.Provider})
}

// handleMessages accepts a Bot Framework activity and answers synchronously
// with a message activity. Non-message activity types (typing,
// conversationUpdate, ...) are acknowledged and ignored.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	var activity Activity

	// The platform expects a reply, not a stack trace: whatever goes wrong
	// past this point, the user gets an apology activity.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[messages] panic recovered: %v", rec)
			respondJSON(w, http.StatusOK, replyTo(activity, chat.ReplyFor(nil)))
		}
	}()

	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_activity", "body must be a JSON activity")
		return
	}
	if activity.Type != "message" {
		w.WriteHeader(http.StatusOK)
		return
	}

	fromID := strings.TrimSpace(activity.From.ID)
	if fromID == "" {
		fromID = "unknown"
	}
	userKey := "teams-" + fromID

	text := strings.TrimSpace(activity.Text)
	if text == "" {
		respondJSON(w, http.StatusOK, replyTo(activity, chat.PromptMessage))
		return
	}

	reply, err := s.correlate.HandleTurn(r.Context(), chat.Turn{UserKey: userKey, Text: text})
	if err != nil {
		respondJSON(w, http.StatusOK, replyTo(activity, chat.ReplyFor(err)))
		return
	}
	respondJSON(w, http.StatusOK, replyTo(activity, reply))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
