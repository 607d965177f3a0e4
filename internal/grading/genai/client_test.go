package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func candidateJSON(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + strconvQuote(text) + `}]}}]}`
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateWithFilePayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k1" {
			t.Errorf("expected api key in query, got %q", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(candidateJSON("SCORE: 10")))
	}))
	defer srv.Close()

	c := New("k1", WithBaseURL(srv.URL))
	text, err := c.GenerateWithFile(context.Background(), "grade this", "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "SCORE: 10" {
		t.Fatalf("text = %q", text)
	}

	contents := got["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts (prompt + inline data), got %d", len(parts))
	}
	if parts[0].(map[string]any)["text"] != "grade this" {
		t.Fatalf("first part should carry the prompt: %v", parts[0])
	}
	inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
	if inline["mime_type"] != "image/png" {
		t.Fatalf("mime_type = %v", inline["mime_type"])
	}
	if inline["data"] != "AQID" { // base64 of 0x01 0x02 0x03
		t.Fatalf("data = %v", inline["data"])
	}
	gc := got["generationConfig"].(map[string]any)
	if gc["maxOutputTokens"].(float64) != 1024 {
		t.Fatalf("maxOutputTokens = %v", gc["maxOutputTokens"])
	}
	if len(got["safetySettings"].([]any)) != 4 {
		t.Fatalf("expected 4 safety settings")
	}
}

func TestGenerateTextOmitsSafetySettings(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(candidateJSON("ok")))
	}))
	defer srv.Close()

	c := New("k1", WithBaseURL(srv.URL))
	if _, err := c.GenerateText(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, present := got["safetySettings"]; present {
		t.Fatalf("text-only request should omit safetySettings")
	}
	gc := got["generationConfig"].(map[string]any)
	if gc["maxOutputTokens"].(float64) != 128 {
		t.Fatalf("maxOutputTokens = %v", gc["maxOutputTokens"])
	}
}

func TestGenerateSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("k1", WithBaseURL(srv.URL))
	_, err := c.GenerateText(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error on non-2xx")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should carry the raw payload, got %v", err)
	}
}

func TestGenerateMissingCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := New("k1", WithBaseURL(srv.URL))
	if _, err := c.GenerateText(context.Background(), "hello"); err == nil {
		t.Fatal("expected protocol violation error")
	}
}

func TestGenerateFailsEagerlyWithoutKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := New("", WithBaseURL(srv.URL))
	_, err := c.GenerateText(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if calls != 0 {
		t.Fatalf("expected no network attempt, server saw %d calls", calls)
	}
}
