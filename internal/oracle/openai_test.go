package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	var gotModel, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = req.Model
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  {\"Chapter\":\"C1\",\"Topics\":[]}  "}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI(srv.URL+"/v1/", "test-key", "mistral")
	out, err := o.Generate(context.Background(), "outline this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != `{"Chapter":"C1","Topics":[]}` {
		t.Errorf("Generate() = %q", out)
	}
	if gotModel != "mistral" || gotPrompt != "outline this" {
		t.Errorf("request model=%q prompt=%q", gotModel, gotPrompt)
	}
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model crashed","type":"server_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAI(srv.URL+"/v1", "", "mistral")
	_, err := o.Generate(context.Background(), "x")
	var ie *InvocationError
	if !errors.As(err, &ie) || ie.Kind != KindFailed {
		t.Fatalf("Generate() error = %v, want failed invocation", err)
	}
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL+"/v1", "", "mistral").Generate(context.Background(), "x")
	if err == nil {
		t.Fatal("Generate() error = nil, want no-choices failure")
	}
}
