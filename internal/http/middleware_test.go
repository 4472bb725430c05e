package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"email-advisor/internal/contextutil"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRequestID(t *testing.T) {
	const existing = "5f0c6f0e-2a9b-4d8e-9c1d-3b7a2e6f4a10"

	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generates when missing"},
		{name: "keeps a valid uuid", incoming: existing, wantSame: true},
		{name: "replaces garbage", incoming: "not-a-uuid\r\nX-Evil: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = contextutil.RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if _, err := uuid.Parse(seen); err != nil {
				t.Fatalf("request id %q is not a uuid", seen)
			}
			if got := w.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response header = %q, context = %q", got, seen)
			}
			if tt.wantSame && seen != tt.incoming {
				t.Errorf("request id = %q, want %q", seen, tt.incoming)
			}
			if !tt.wantSame && seen == tt.incoming {
				t.Errorf("request id should have been regenerated")
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	var capturedCtx context.Context
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedCtx = r.Context()
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	LoggerMiddleware(handler).ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("LoggerMiddleware() status = %v, want %v", w.Code, http.StatusTeapot)
	}
	if capturedCtx == nil {
		t.Fatal("LoggerMiddleware() should call the next handler")
	}
	if contextutil.LoggerFromContext(capturedCtx) == slog.Default() {
		t.Error("LoggerMiddleware() should add a request scoped logger to the context")
	}
}

type fakeObserver struct {
	route  string
	method string
	status int
	calls  int
}

func (f *fakeObserver) ObserveHTTP(route, method string, status int, _ time.Duration) {
	f.route, f.method, f.status = route, method, status
	f.calls++
}

func TestInstrument(t *testing.T) {
	obs := &fakeObserver{}
	handler := Instrument(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/anything", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if obs.calls != 1 {
		t.Fatalf("ObserveHTTP() calls = %d, want 1", obs.calls)
	}
	if obs.route != "unmatched" || obs.method != http.MethodPost || obs.status != http.StatusOK {
		t.Errorf("ObserveHTTP() = %q %q %d", obs.route, obs.method, obs.status)
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/process", nil)
		req.Header.Set("Origin", "https://advising.example.edu")
		w := httptest.NewRecorder()
		CORS(next).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://advising.example.edu" {
			t.Errorf("Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Vary"); got != "Origin" {
			t.Errorf("Vary = %q, want Origin", got)
		}
	})

	t.Run("wildcard without origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		CORS(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
	})
}
