// Package playground exposes an agent through a small chat web UI and
// JSON endpoints.
package playground

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// Agent is the surface the playground needs from an assembled agent.
type Agent interface {
	Name() string
	ModelName() string
	ToolNames() []string
	Respond(ctx context.Context, sessionID, message string) (answer, sid string, err error)
}

type Server struct {
	agent      Agent
	ratePerMin int
}

func New(agent Agent, ratePerMin int) *Server {
	return &Server{agent: agent, ratePerMin: ratePerMin}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
	TS        string `json:"ts"`
}

// Handler returns the full route set wrapped in rate limiting.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(chatPage))
	})

	mux.HandleFunc("/v1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status": "ok",
			"agent":  s.agent.Name(),
			"model":  s.agent.ModelName(),
			"tools":  s.agent.ToolNames(),
		})
	})

	mux.HandleFunc("/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeErrJSON(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
			return
		}
		msg := strings.TrimSpace(req.Message)
		if msg == "" {
			writeErrJSON(w, http.StatusBadRequest, "missing_message", "missing message")
			return
		}

		answer, sid, err := s.agent.Respond(r.Context(), req.SessionID, msg)
		if err != nil {
			log.Printf("chat: respond: %v", err)
			writeErrJSON(w, http.StatusBadGateway, "agent_error", "agent failed to respond")
			return
		}
		writeJSON(w, chatResponse{
			Answer:    answer,
			SessionID: sid,
			TS:        time.Now().UTC().Format(time.RFC3339),
		})
	})

	lim := newKeyedLimiter(s.ratePerMin)
	return lim.middleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx2)
	}()

	log.Println("playground listening on", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrJSON(w http.ResponseWriter, code int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"kind": kind, "message": msg}})
}
