package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newCapturedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})), &buf
}

func TestLoggingMiddlewareSkipsProbes(t *testing.T) {
	logger, buf := newCapturedLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			buf.Reset()
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

			if rr.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", rr.Code)
			}
			if buf.Len() != 0 {
				t.Errorf("Expected no log output for %s, got: %s", path, buf.String())
			}
		})
	}
}

func TestLoggingMiddlewareRequestFields(t *testing.T) {
	logger, buf := newCapturedLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/calc/gfr?height=100&creatinine=50", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-42"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logs := buf.String()
	expected := []string{"HTTP request", "request_id=req-42", "path=/v1/calc/gfr", "status_code=200", "bytes_written=2", "query_params=2"}
	for _, want := range expected {
		if !strings.Contains(logs, want) {
			t.Errorf("Expected log to contain %q, got: %s", want, logs)
		}
	}
	if strings.Contains(logs, "creatinine=50") {
		t.Errorf("Expected raw query values to stay out of the log, got: %s", logs)
	}
}

func TestLoggingMiddlewareRequestIDFallback(t *testing.T) {
	logger, buf := newCapturedLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/v1/drugs", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, 12345))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "request_id=unknown") {
		t.Errorf("Expected request_id=unknown for a non string ID, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "query_params") {
		t.Errorf("Expected no query_params without a query, got: %s", buf.String())
	}
}

func TestLoggingMiddlewareRoutePattern(t *testing.T) {
	logger, buf := newCapturedLogger()
	r := chi.NewRouter()
	r.Use(LoggingMiddleware(logger))
	r.Get("/v1/drugs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/drugs/amoxicillin", nil))

	if !strings.Contains(buf.String(), "route=/v1/drugs/{id}") {
		t.Errorf("Expected route pattern in log, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "status_code=404") {
		t.Errorf("Expected status_code=404, got: %s", buf.String())
	}
}

func TestLoggingMiddlewareServerErrorsLogAtError(t *testing.T) {
	logger, buf := newCapturedLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/classify/jaundice", nil))

	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("Expected level=ERROR for a 503, got: %s", buf.String())
	}
}

func TestResponseWriterWrapper(t *testing.T) {
	rr := httptest.NewRecorder()
	ww := &responseWriterWrapper{ResponseWriter: rr, statusCode: http.StatusOK}

	ww.WriteHeader(http.StatusBadRequest)
	n, err := ww.Write([]byte("bad weight"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ww.statusCode != http.StatusBadRequest || rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d/%d", ww.statusCode, rr.Code)
	}
	if n != 10 || ww.bytesWritten != 10 {
		t.Errorf("Expected 10 bytes written, got %d/%d", n, ww.bytesWritten)
	}
}
