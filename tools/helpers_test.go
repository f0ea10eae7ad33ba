package tools_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/repoqna/repoqna/internal/potpie"
)

// newPotpieClient backs a client with an in-process HTTP server and
// tightens the polling knobs so wait paths finish quickly.
func newPotpieClient(t *testing.T, handler http.HandlerFunc) *potpie.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return potpie.New("test-key",
		potpie.WithBaseURL(srv.URL),
		potpie.WithPollInterval(time.Millisecond),
		potpie.WithReadyTimeout(100*time.Millisecond),
	)
}
