package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/game"
	"github.com/juuwaah/kotoba-akinator/internal/store"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (p *stubProvider) Complete(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reply, p.err
}

func (p *stubProvider) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

var testVocab = []vocab.Entry{{Word: "猫", Meaning: "cat", Tier: vocab.N5, PartOfSpeech: vocab.PartOfSpeechNoun, Eligible: true}}

func newTestServer(p *stubProvider, opts Options, entries []vocab.Entry) *gin.Engine {
	ctrl := akinator.NewController(akinator.NewOracle(p, "test", time.Second), vocab.NewDrawer(vocab.NewStatic(entries)))
	mgr := game.NewManager(store.NewMemory(), ctrl, game.Options{})
	if opts.RateLimitRPS == 0 {
		opts.RateLimitRPS, opts.RateLimitBurst = 100, 100
	}
	return NewRouter(New(mgr, opts))
}

type client struct {
	t      *testing.T
	r      *gin.Engine
	cookie *http.Cookie
}

func (c *client) call(method, path string, body any) (*httptest.ResponseRecorder, response) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookie {
			c.cookie = ck
		}
	}
	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			c.t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, resp
}

func TestHealthAndTiers(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, testVocab)}
	w, _ := c.call(http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	w, _ = c.call(http.MethodGet, "/api/akinator/tiers", nil)
	var body struct {
		Tiers []struct {
			Tier string `json:"tier"`
		} `json:"tiers"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Tiers) != 5 || body.Tiers[0].Tier != "N5" {
		t.Fatalf("unexpected tiers %s", w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Cache-Control"), "no-store") {
		t.Fatalf("api responses must not be cached, got %q", w.Header().Get("Cache-Control"))
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("missing request id header")
	}
}

func TestStateWithoutCookie(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, testVocab)}
	w, resp := c.call(http.MethodGet, "/api/akinator/state", nil)
	if w.Code != http.StatusOK || resp.State != akinator.StateSelecting || c.cookie != nil {
		t.Fatalf("state: %d %+v cookie=%v", w.Code, resp, c.cookie)
	}
}

func TestUserGuessesFlow(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, testVocab)}
	w, resp := c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "user", "tier": "n5"})
	if w.Code != http.StatusOK || resp.State != akinator.StateInProgress {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	if c.cookie == nil || !c.cookie.HttpOnly || c.cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("session cookie not set correctly: %+v", c.cookie)
	}

	_, resp = c.call(http.MethodPost, "/api/akinator/message", map[string]string{"text": "ねこですか？"})
	if len(resp.History) != 2 || resp.History[1].Text != "はい" {
		t.Fatalf("unexpected history %+v", resp.History)
	}

	_, resp = c.call(http.MethodGet, "/api/akinator/state", nil)
	if len(resp.History) != 2 {
		t.Fatal("state should reflect the stored session")
	}

	_, resp = c.call(http.MethodPost, "/api/akinator/message", map[string]string{"text": "降参"})
	if !resp.Ended || !resp.IsOver || resp.RevealedSecret == nil || resp.RevealedSecret.Word != "猫" {
		t.Fatalf("give up: %+v", resp)
	}

	w, resp = c.call(http.MethodPost, "/api/akinator/message", map[string]string{"text": "いぬですか？"})
	if w.Code != http.StatusConflict || resp.Error == nil || resp.Error.Code != "game_over" {
		t.Fatalf("expected 409 game_over, got %d %s", w.Code, w.Body.String())
	}
	if !resp.IsOver || len(resp.History) != 4 {
		t.Fatal("409 body should carry the unchanged view")
	}

	w, resp = c.call(http.MethodPost, "/api/akinator/restart", nil)
	if w.Code != http.StatusOK || resp.IsOver || len(resp.History) != 0 {
		t.Fatalf("restart: %d %+v", w.Code, resp)
	}
}

func TestDirectGuessEndpoint(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, testVocab)}
	c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "user", "tier": "N5"})
	_, resp := c.call(http.MethodPost, "/api/akinator/guess", map[string]string{"candidate": "ネコ"})
	if len(resp.History) != 2 || resp.History[1].Text != "はい" {
		t.Fatalf("unexpected history %+v", resp.History)
	}
}

func TestValidationErrors(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, testVocab)}
	cases := []struct {
		path string
		body any
		code string
	}{
		{"/api/akinator/message", map[string]string{"text": "はい"}, "not_started"},
		{"/api/akinator/start", map[string]string{"role": "user", "tier": "N9"}, "invalid_tier"},
		{"/api/akinator/start", map[string]string{"role": "robot", "tier": "N5"}, "invalid_role"},
		{"/api/akinator/start", "{not json", "bad_request"},
	}
	for _, tc := range cases {
		w, _ := c.call(http.MethodPost, tc.path, tc.body)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), tc.code) {
			t.Errorf("%s %v: got %d %s", tc.path, tc.body, w.Code, w.Body.String())
		}
	}

	c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "user", "tier": "N5"})
	w, resp := c.call(http.MethodPost, "/api/akinator/message", map[string]string{"text": "  "})
	if w.Code != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != "empty_message" {
		t.Fatalf("empty message: %d %s", w.Code, w.Body.String())
	}
}

func TestOracleUnavailable(t *testing.T) {
	p := &stubProvider{reply: "それは動物ですか？"}
	c := &client{t: t, r: newTestServer(p, Options{}, testVocab)}
	w, resp := c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "gpt", "tier": "N5"})
	if w.Code != http.StatusOK || len(resp.History) != 1 {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	p.fail(errors.New("timeout"))
	w, resp = c.call(http.MethodPost, "/api/akinator/message", map[string]string{"text": "いいえ"})
	if w.Code != http.StatusServiceUnavailable || resp.Error == nil || resp.Error.Code != "oracle_unavailable" || !resp.Error.Retry {
		t.Fatalf("expected 503 oracle_unavailable, got %d %s", w.Code, w.Body.String())
	}
	if len(resp.History) != 1 {
		t.Fatal("failed turn must not be recorded")
	}
}

func TestVocabularyExhausted(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, nil)}
	w, resp := c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "user", "tier": "N1"})
	if w.Code != http.StatusInternalServerError || resp.Error == nil || resp.Error.Code != "config_error" {
		t.Fatalf("expected 500 config_error, got %d %s", w.Code, w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{RateLimitRPS: 1, RateLimitBurst: 2}, testVocab)}
	codes := []int{}
	for i := 0; i < 3; i++ {
		w, _ := c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "user", "tier": "N5"})
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
	w, _ := c.call(http.MethodGet, "/api/akinator/state", nil)
	if w.Code != http.StatusOK {
		t.Fatal("reads are not rate limited")
	}
}

func TestAdminSessions(t *testing.T) {
	c := &client{t: t, r: newTestServer(&stubProvider{}, Options{}, testVocab)}
	if w, _ := c.call(http.MethodGet, "/api/admin/sessions", nil); w.Code != http.StatusNotFound {
		t.Fatalf("admin should be disabled without credentials, got %d", w.Code)
	}

	r := newTestServer(&stubProvider{}, Options{AdminUser: "admin", AdminPass: "secret"}, testVocab)
	c = &client{t: t, r: r}
	c.call(http.MethodPost, "/api/akinator/start", map[string]string{"role": "user", "tier": "N5"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/sessions", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body struct {
		Count    int            `json:"count"`
		Sessions []game.Summary `json:"sessions"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusOK || body.Count != 1 || body.Sessions[0].State != akinator.StateInProgress {
		t.Fatalf("admin sessions: %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "猫") {
		t.Fatal("admin summary must not leak the secret")
	}
}

func TestClassify(t *testing.T) {
	cases := map[error]int{
		akinator.ErrGameOver:            http.StatusConflict,
		akinator.ErrEmptyMessage:        http.StatusBadRequest,
		akinator.ErrVocabularyExhausted: http.StatusInternalServerError,
		akinator.ErrOracleUnavailable:   http.StatusServiceUnavailable,
		errors.New("surprise"):          http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := Classify(err).Status; got != want {
			t.Errorf("Classify(%v) = %d, want %d", err, got, want)
		}
	}
}
