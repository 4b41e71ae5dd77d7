package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, candidateResponse("Web Development"))

	provider := NewGeminiProvider(srv.URL, "test-key", "test-model", client)
	got, err := provider.Complete(context.Background(), "categorize this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Web Development" {
		t.Errorf("got %q, want %q", got, "Web Development")
	}
}

func TestComplete_HTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "server error"})

	provider := NewGeminiProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "categorize this")
	if err == nil {
		t.Fatal("expected error on 5xx response")
	}
}

func TestComplete_QuotaExceeded(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusTooManyRequests, map[string]string{"error": "quota exceeded"})

	provider := NewGeminiProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "categorize this")
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
}

func TestComplete_NoCandidates(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, map[string]any{"candidates": []any{}})

	provider := NewGeminiProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "categorize this")
	if err == nil {
		t.Fatal("expected error when LLM returns no candidates")
	}
}

func TestComplete_APIErrorPayload(t *testing.T) {
	body := map[string]any{
		"error": map[string]any{"code": 403, "message": "key invalid", "status": "PERMISSION_DENIED"},
	}
	srv, client := makeTestServer(t, http.StatusOK, body)

	provider := NewGeminiProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "categorize this")
	if err == nil {
		t.Fatal("expected error when response carries an error payload")
	}
}

func TestComplete_SetsAPIKeyHeaderAndPath(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidateResponse("ok"))
	}))
	defer srv.Close()

	provider := NewGeminiProvider(srv.URL, "my-secret-key", "gemini-2.0-flash", srv.Client())
	_, _ = provider.Complete(context.Background(), "hello")

	if gotKey != "my-secret-key" {
		t.Errorf("x-goog-api-key = %q, want %q", gotKey, "my-secret-key")
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
}
