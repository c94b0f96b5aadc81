package vocab

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

//go:embed data/vocabulary.json
var embeddedVocabulary []byte

// Source yields the vocabulary of one tier.
type Source interface {
	Entries(ctx context.Context, tier Tier) ([]Entry, error)
}

type document struct {
	Entries []Entry `json:"entries"`
}

func parse(data []byte) ([]Entry, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	return lo.Map(doc.Entries, func(e Entry, _ int) Entry {
		e.Word = strings.TrimSpace(e.Word)
		e.Meaning = strings.TrimSpace(e.Meaning)
		e.Tier = Tier(strings.ToUpper(string(e.Tier)))
		e.PartOfSpeech = strings.ToLower(strings.TrimSpace(e.PartOfSpeech))
		return e
	}), nil
}

// StaticSource serves a fixed list of entries.
type StaticSource struct {
	entries []Entry
}

func NewStatic(entries []Entry) *StaticSource {
	return &StaticSource{entries: entries}
}

// Embedded returns the vocabulary bundled with the binary.
func Embedded() *StaticSource {
	entries, err := parse(embeddedVocabulary)
	if err != nil {
		panic(err)
	}
	return NewStatic(entries)
}

func (s *StaticSource) Entries(ctx context.Context, tier Tier) ([]Entry, error) {
	return byTier(s.entries, tier), nil
}

// FileSource reads a JSON vocabulary document from disk on every call; wrap
// it in a Cache to avoid rereading.
type FileSource struct {
	Path string
}

func (f FileSource) Entries(ctx context.Context, tier Tier) ([]Entry, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", f.Path, err)
	}
	entries, err := parse(data)
	if err != nil {
		return nil, err
	}
	return byTier(entries, tier), nil
}

func byTier(entries []Entry, tier Tier) []Entry {
	return lo.Filter(entries, func(e Entry, _ int) bool { return e.Tier == tier })
}
