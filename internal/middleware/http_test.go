package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justinas/alice"
)

func TestHTTPChain(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seenID string
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	chain := alice.New(Recover(logger), RequestID, SecureHeaders)

	t.Run("generates request id and sets headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain.Then(ok).ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if seenID == "" || rec.Header().Get(RequestIDHeader) != seenID {
			t.Errorf("request id = %q, header = %q", seenID, rec.Header().Get(RequestIDHeader))
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("missing X-Content-Type-Options")
		}
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		chain.Then(ok).ServeHTTP(rec, req)

		if seenID != "abc-123" {
			t.Errorf("request id = %q, want abc-123", seenID)
		}
	})

	t.Run("recovers panics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain.Then(boom).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}
