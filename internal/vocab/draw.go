package vocab

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/samber/lo"
)

// Drawer picks random secrets from a Source.
type Drawer struct {
	src  Source
	intn func(n int) int
}

func NewDrawer(src Source) *Drawer {
	return &Drawer{src: src, intn: cryptoIntn}
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Eligible returns the nouns of tier flagged for the game.
func (d *Drawer) Eligible(ctx context.Context, tier Tier) ([]Entry, error) {
	entries, err := d.src.Entries(ctx, tier)
	if err != nil {
		return nil, err
	}
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return e.Eligible && e.PartOfSpeech == PartOfSpeechNoun && e.Word != ""
	}), nil
}

func (d *Drawer) Draw(ctx context.Context, tier Tier) (Entry, error) {
	if !tier.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	eligible, err := d.Eligible(ctx, tier)
	if err != nil {
		return Entry{}, err
	}
	if len(eligible) == 0 {
		return Entry{}, fmt.Errorf("%w for %s", ErrNoEntry, tier)
	}
	return eligible[d.intn(len(eligible))], nil
}
