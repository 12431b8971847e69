package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienv/daygate/pkg/config"
	"github.com/julienv/daygate/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func TestNew(t *testing.T) {
	client := New(testLogger())
	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.timeout, DefaultTimeout)
	}
}

func TestNewWithTimeout(t *testing.T) {
	timeout := 5 * time.Second
	client := NewWithTimeout(testLogger(), timeout)
	if client.Timeout() != timeout {
		t.Errorf("Timeout() = %v, want %v", client.Timeout(), timeout)
	}

	// Non-positive timeouts fall back to the default
	client = NewWithTimeout(testLogger(), 0)
	if client.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", client.Timeout(), DefaultTimeout)
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","count":3}`))
	}))
	defer server.Close()

	var body struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}

	client := New(testLogger())
	if err := client.GetJSON(context.Background(), "test", server.URL, &body); err != nil {
		t.Fatalf("GetJSON() failed: %v", err)
	}

	if body.Status != "ok" || body.Count != 3 {
		t.Errorf("decoded body = %+v", body)
	}
}

func TestGetJSONNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var body map[string]interface{}
	err := New(testLogger()).GetJSON(context.Background(), "test", server.URL, &body)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", ue.StatusCode)
	}
	if ue.Source != "test" {
		t.Errorf("Source = %s, want test", ue.Source)
	}
}

func TestGetJSONUnexpectedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`this is not JSON`))
	}))
	defer server.Close()

	var body map[string]interface{}
	err := New(testLogger()).GetJSON(context.Background(), "test", server.URL, &body)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Reason != "unexpected shape" {
		t.Errorf("Reason = %q, want %q", ue.Reason, "unexpected shape")
	}
}

func TestGetJSONTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var body map[string]interface{}
	client := NewWithTimeout(testLogger(), 50*time.Millisecond)
	err := client.GetJSON(context.Background(), "slow", server.URL, &body)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Source != "slow" {
		t.Errorf("Source = %s, want slow", te.Source)
	}
}

func TestErrorPredicates(t *testing.T) {
	ue := &UpstreamError{Source: "a", StatusCode: 502}
	te := &TimeoutError{Source: "b", Timeout: time.Second}

	if !IsUpstreamError(ue) {
		t.Error("IsUpstreamError(UpstreamError) = false")
	}
	if IsUpstreamError(te) {
		t.Error("IsUpstreamError(TimeoutError) = true")
	}
	if !IsTimeoutError(te) {
		t.Error("IsTimeoutError(TimeoutError) = false")
	}
	if IsTimeoutError(errors.New("plain")) {
		t.Error("IsTimeoutError(plain error) = true")
	}
}

func TestWithRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(testLogger()).WithRateLimit(100)
	var body map[string]interface{}
	for i := 0; i < 3; i++ {
		if err := client.GetJSON(context.Background(), "test", server.URL, &body); err != nil {
			t.Fatalf("GetJSON() failed: %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
