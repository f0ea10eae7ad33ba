package playground_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/repoqna/repoqna/internal/playground"
)

type stubAgent struct {
	answer string
	err    error
	gotMsg string
	gotSID string
}

func (s *stubAgent) Name() string        { return "Test Agent" }
func (s *stubAgent) ModelName() string   { return "test-model" }
func (s *stubAgent) ToolNames() []string { return []string{"start_repo_parsing", "ask_parsed_repo"} }

func (s *stubAgent) Respond(ctx context.Context, sessionID, message string) (string, string, error) {
	s.gotMsg = message
	s.gotSID = sessionID
	if sessionID == "" {
		sessionID = "generated-id"
	}
	return s.answer, sessionID, s.err
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus_ReportsAgentAndTools(t *testing.T) {
	h := playground.New(&stubAgent{}, 60).Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body struct {
		Status string   `json:"status"`
		Agent  string   `json:"agent"`
		Model  string   `json:"model"`
		Tools  []string `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "ok" || body.Agent != "Test Agent" || body.Model != "test-model" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.Tools) != 2 {
		t.Fatalf("unexpected tools: %v", body.Tools)
	}
}

func TestChat_Happy(t *testing.T) {
	ag := &stubAgent{answer: "42 stars"}
	h := playground.New(ag, 60).Handler()

	rec := doJSON(t, h, http.MethodPost, "/v1/chat", `{"message":"how many stars?","session_id":"s-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var body struct {
		Answer    string `json:"answer"`
		SessionID string `json:"session_id"`
		TS        string `json:"ts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Answer != "42 stars" || body.SessionID != "s-1" || body.TS == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if ag.gotMsg != "how many stars?" || ag.gotSID != "s-1" {
		t.Fatalf("agent received %q %q", ag.gotMsg, ag.gotSID)
	}
}

func TestChat_NewSessionIDReturned(t *testing.T) {
	h := playground.New(&stubAgent{answer: "hi"}, 60).Handler()

	rec := doJSON(t, h, http.MethodPost, "/v1/chat", `{"message":"hello"}`)
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.SessionID != "generated-id" {
		t.Fatalf("expected generated session ID, got %q", body.SessionID)
	}
}

func TestChat_Validation(t *testing.T) {
	h := playground.New(&stubAgent{}, 60).Handler()

	if rec := doJSON(t, h, http.MethodGet, "/v1/chat", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET should be rejected, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/v1/chat", `{oops`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid JSON should be rejected, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/v1/chat", `{"message":"  "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank message should be rejected, got %d", rec.Code)
	}
}

func TestChat_AgentFailure_Is502(t *testing.T) {
	h := playground.New(&stubAgent{err: errors.New("model down")}, 60).Handler()

	rec := doJSON(t, h, http.MethodPost, "/v1/chat", `{"message":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "model down") {
		t.Fatal("internal error detail should not leak to clients")
	}
}

func TestIndex_ServesChatPage(t *testing.T) {
	h := playground.New(&stubAgent{}, 60).Handler()

	rec := doJSON(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "/v1/chat") {
		t.Fatal("chat page should post to /v1/chat")
	}

	if rec := doJSON(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path should 404, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	// Limit of 1/min with burst 1: the second immediate request must be rejected.
	h := playground.New(&stubAgent{}, 1).Handler()

	if rec := doJSON(t, h, http.MethodGet, "/v1/status", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/v1/status", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
}
