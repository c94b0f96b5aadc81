package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/ai"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "gpt-4o" || body.Temperature != 0.5 {
			t.Errorf("unexpected model/temperature: %+v", body)
		}
		if len(body.Messages) != 1 || body.Messages[0].Content != "質問して" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  食べ物ですか？ \n"}}]}`))
	}))
	defer srv.Close()

	c := New("sk-test", srv.URL+"/")
	out, err := c.Complete(context.Background(), "gpt-4o", "質問して", 0.5)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "食べ物ですか？" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
}

func TestCompleteMissingKey(t *testing.T) {
	c := New("", "")
	if _, err := c.Complete(context.Background(), "gpt-4o", "x", 0); !errors.Is(err, ai.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate"}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"はい"}}]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL)
	c.Backoff = ai.Backoff{Attempts: 3, Base: time.Millisecond}
	out, err := c.Complete(context.Background(), "m", "p", 0)
	if err != nil || out != "はい" {
		t.Fatalf("expected retry to succeed, got %q %v", out, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestCompleteQuotaIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL)
	c.Backoff = ai.Backoff{Attempts: 3, Base: time.Millisecond}
	if _, err := c.Complete(context.Background(), "m", "p", 0); !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("quota errors must not be retried, got %d calls", calls)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := New("k", srv.URL).Complete(context.Background(), "m", "p", 0); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewGroqUsesGroqEndpoint(t *testing.T) {
	c := NewGroq("gsk")
	if c.BaseURL != groqBaseURL {
		t.Fatalf("expected groq base url, got %s", c.BaseURL)
	}
}
