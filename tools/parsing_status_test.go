package tools_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/repoqna/repoqna/tools"
)

func TestCheckParsingStatus_Happy(t *testing.T) {
	c := newPotpieClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/parsing-status/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"project_id":"abc123","status":"parsing"}`))
	})
	def := tools.CheckParsingStatusDefinition(c)

	in, _ := json.Marshal(tools.CheckParsingStatusInput{ProjectID: "abc123"})
	out, err := def.Function(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "Current parsing status: parsing" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestCheckParsingStatus_EmptyProjectID(t *testing.T) {
	c := newPotpieClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty project_id should not reach the API")
	})
	def := tools.CheckParsingStatusDefinition(c)

	in, _ := json.Marshal(tools.CheckParsingStatusInput{})
	out, err := def.Function(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(out, "cannot be empty") {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestCheckParsingStatus_NotFound_ReturnsFailureString(t *testing.T) {
	c := newPotpieClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"project not found"}`))
	})
	def := tools.CheckParsingStatusDefinition(c)

	in, _ := json.Marshal(tools.CheckParsingStatusInput{ProjectID: "ghost"})
	out, err := def.Function(context.Background(), in)
	if err != nil {
		t.Fatalf("failures must be result strings, not errors: %v", err)
	}
	if !strings.HasPrefix(out, "Failed to get parsing status") {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestCheckParsingStatus_MissingStatusField(t *testing.T) {
	c := newPotpieClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"project_id":"abc123"}`))
	})
	def := tools.CheckParsingStatusDefinition(c)

	in, _ := json.Marshal(tools.CheckParsingStatusInput{ProjectID: "abc123"})
	out, err := def.Function(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(out, "invalid response format") {
		t.Fatalf("unexpected result: %q", out)
	}
}
