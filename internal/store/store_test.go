package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

func sample(id string) akinator.Session {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	return akinator.Session{
		ID:            id,
		Role:          akinator.RoleUserGuesses,
		Tier:          vocab.N3,
		SecretWord:    "砂漠",
		SecretMeaning: "desert",
		History: []akinator.Turn{
			{Speaker: akinator.SpeakerUser, Text: "生き物ですか？"},
			{Speaker: akinator.SpeakerOracle, Text: "いいえ"},
		},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{"memory": NewMemory(), "sqlite": sq}
}

func TestRoundTrip(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sample("a")
			if err := st.Save(ctx, want); err != nil {
				t.Fatal(err)
			}
			got, err := st.Load(ctx, "a")
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch\n got %+v\nwant %+v", got, want)
			}

			want.Over = true
			want.History = append(want.History, akinator.Turn{Speaker: akinator.SpeakerOracle, Text: "正解は「砂漠」（desert）でした！"})
			if err := st.Save(ctx, want); err != nil {
				t.Fatal(err)
			}
			got, _ = st.Load(ctx, "a")
			if !got.Over || len(got.History) != 3 {
				t.Fatalf("overwrite not persisted: %+v", got)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := st.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestDeleteAndList(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, id := range []string{"a", "b", "c"} {
				if err := st.Save(ctx, sample(id)); err != nil {
					t.Fatal(err)
				}
			}
			if err := st.Delete(ctx, "b"); err != nil {
				t.Fatal(err)
			}
			all, err := st.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 2 {
				t.Fatalf("expected 2 sessions, got %d", len(all))
			}
			if _, err := st.Load(ctx, "b"); !errors.Is(err, ErrNotFound) {
				t.Fatal("deleted session still loadable")
			}
		})
	}
}

func TestMemoryDoesNotAlias(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s := sample("a")
	m.Save(ctx, s)
	s.History[0].Text = "changed"
	got, _ := m.Load(ctx, "a")
	if got.History[0].Text == "changed" {
		t.Fatal("store shares history with the caller")
	}
	got.History[1].Text = "changed"
	again, _ := m.Load(ctx, "a")
	if again.History[1].Text == "changed" {
		t.Fatal("loaded copy shares history with the store")
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	m := NewMemory()
	m.now = func() time.Time { return now }
	m.Save(ctx, sample("old"))
	now = now.Add(time.Hour)
	m.Save(ctx, sample("new"))
	n, err := m.Sweep(ctx, now.Add(-30*time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("memory sweep removed %d (%v)", n, err)
	}
	if _, err := m.Load(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("expired session survived the sweep")
	}

	sq, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "sweep.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sq.Close()
	now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sq.now = func() time.Time { return now }
	sq.Save(ctx, sample("old"))
	now = now.Add(time.Hour)
	sq.Save(ctx, sample("new"))
	n, err = sq.Sweep(ctx, now.Add(-30*time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("sqlite sweep removed %d (%v)", n, err)
	}
	if _, err := sq.Load(ctx, "new"); err != nil {
		t.Fatalf("fresh session was swept: %v", err)
	}
}

func TestMemoryLoadRefreshesAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	m.Save(ctx, sample("a"))
	now = now.Add(time.Hour)
	m.Load(ctx, "a")
	if n, _ := m.Sweep(ctx, now.Add(-time.Minute)); n != 0 {
		t.Fatal("recently read session should survive")
	}
}
