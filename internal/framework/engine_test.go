package framework

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/basakil/webapi-bench/internal/routes"
	"github.com/basakil/webapi-bench/pkg/models"
)

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()
	table, err := routes.FrameworkTable(models.FrameworkMessage)
	if err != nil {
		t.Fatalf("Failed to build route table: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewEngine(table, logger)
}

// TestGetJSON tests GET /json
func TestGetJSON(t *testing.T) {
	engine := setupTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/json", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}
	expected := `{"message":"Hello from .NET JIT","value":42}`
	if w.Body.String() != expected {
		t.Errorf("Expected body %s, got %s", expected, w.Body.String())
	}
}

// TestGetJSONIdempotent checks repeated requests return identical bodies
func TestGetJSONIdempotent(t *testing.T) {
	engine := setupTestEngine(t)

	var first string
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/json", nil))
		if i == 0 {
			first = w.Body.String()
			continue
		}
		if w.Body.String() != first {
			t.Fatalf("Response %d differs: %s vs %s", i, w.Body.String(), first)
		}
	}
}

// TestFrameworkDefaultNotFound checks unmatched requests fall through to gin's 404
func TestFrameworkDefaultNotFound(t *testing.T) {
	engine := setupTestEngine(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/missing"},
		{http.MethodGet, "/"},
		{http.MethodGet, "/json/"},
		{http.MethodGet, "/JSON"},
		{http.MethodHead, "/json"},
		{http.MethodPost, "/json"},
		{http.MethodDelete, "/json"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, http.StatusNotFound, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "" {
			t.Errorf("%s %s: expected no redirect, got Location %s", tt.method, tt.path, loc)
		}
		if w.Body.String() != "404 page not found" {
			t.Errorf("%s %s: expected gin default body, got %q", tt.method, tt.path, w.Body.String())
		}
	}
}

// TestAnyMethodRoute checks method-less table routes are registered for every method
func TestAnyMethodRoute(t *testing.T) {
	table := routes.NewTable()
	if err := table.Handle("", "/ping", routes.JSONHandler([]byte(`{}`))); err != nil {
		t.Fatalf("Failed to register route: %v", err)
	}
	engine := NewEngine(table, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s /ping: expected status %d, got %d", method, http.StatusOK, w.Code)
		}
	}
}

// TestRecovery checks a panicking handler yields 500 instead of killing the server
func TestRecovery(t *testing.T) {
	table := routes.NewTable()
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	if err := table.Handle(http.MethodGet, "/boom", boom); err != nil {
		t.Fatalf("Failed to register route: %v", err)
	}
	engine := NewEngine(table, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

// TestGetJSONConcurrent hits a live engine from many goroutines and checks
// every response carries the same fixed payload.
func TestGetJSONConcurrent(t *testing.T) {
	srv := httptest.NewServer(setupTestEngine(t))
	defer srv.Close()

	const workers = 32
	const perWorker = 20
	expected := `{"message":"Hello from .NET JIT","value":42}`

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				resp, err := http.Get(srv.URL + "/json")
				if err != nil {
					t.Errorf("Request failed: %v", err)
					return
				}
				body, err := io.ReadAll(resp.Body)
				resp.Body.Close()
				if err != nil {
					t.Errorf("Failed to read body: %v", err)
					return
				}
				if resp.StatusCode != http.StatusOK {
					t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
				}
				if string(body) != expected {
					t.Errorf("Expected %s, got %s", expected, body)
				}
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count != workers*perWorker {
		t.Errorf("Expected %d responses, got %d", workers*perWorker, count)
	}
}

// TestRouterTarget checks the router target's table on the same engine
func TestRouterTarget(t *testing.T) {
	table, err := routes.FrameworkTable(models.RouterMessage)
	if err != nil {
		t.Fatalf("Failed to build route table: %v", err)
	}
	engine := NewEngine(table, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/json", nil))
	expected := `{"message":"Hello from Rust (axum)","value":42}`
	if w.Code != http.StatusOK || w.Body.String() != expected {
		t.Errorf("Expected 200 %s, got %d %s", expected, w.Code, w.Body.String())
	}
}
