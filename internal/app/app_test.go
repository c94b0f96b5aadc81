package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/juuwaah/kotoba-akinator/internal/ai"
	"github.com/juuwaah/kotoba-akinator/internal/config"
	"github.com/juuwaah/kotoba-akinator/internal/store"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := OpenStore(ctx, config.Config{SessionStore: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.Memory); !ok {
		t.Fatalf("memory store expected, got %T", st)
	}
	st.Close()

	st, err = OpenStore(ctx, config.Config{SessionStore: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "a.db")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.SQLite); !ok {
		t.Fatalf("sqlite store expected, got %T", st)
	}
	st.Close()

	if _, err := OpenStore(ctx, config.Config{SessionStore: "redis"}); err == nil {
		t.Fatal("unknown store should fail")
	}
}

func TestVocabSource(t *testing.T) {
	if _, ok := VocabSource(config.Config{}).(*vocab.StaticSource); !ok {
		t.Fatal("embedded list expected without VOCAB_FILE")
	}
	if _, ok := VocabSource(config.Config{VocabFile: "words.json"}).(*vocab.Cache); !ok {
		t.Fatal("cached file source expected with VOCAB_FILE")
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	if _, _, err := Build(ctx, config.Config{DefaultProvider: "nope"}); !errors.Is(err, ai.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}

	mgr, st, err := Build(ctx, config.Config{DefaultProvider: "ollama", OllamaHost: "http://127.0.0.1:1", SessionStore: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	view, err := mgr.View(ctx, mgr.NewSessionID())
	if err != nil {
		t.Fatal(err)
	}
	if view.IsOver || len(view.History) != 0 {
		t.Fatalf("fresh session expected, got %+v", view)
	}
}
