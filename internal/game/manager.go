package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/store"
)

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Manager serialises actions per session: load, step, save.
type Manager struct {
	store store.Store
	ctrl  *akinator.Controller
	opts  Options

	mu    sync.Mutex
	locks map[string]*sessionLock

	now func() time.Time
}

func NewManager(st store.Store, ctrl *akinator.Controller, opts Options) *Manager {
	return &Manager{
		store: st,
		ctrl:  ctrl,
		opts:  opts,
		locks: make(map[string]*sessionLock),
		now:   time.Now,
	}
}

// NewSessionID returns a fresh, unguessable session id.
func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l := m.locks[id]
	if l == nil {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) load(ctx context.Context, id string) (akinator.Session, error) {
	s, err := m.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return akinator.Session{ID: id}, nil
	}
	if err != nil {
		return akinator.Session{}, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// Do applies a to the session. On failure nothing is persisted and the
// returned view reflects the unchanged session.
func (m *Manager) Do(ctx context.Context, id string, a akinator.Action) (akinator.View, akinator.Effects, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return akinator.View{}, akinator.Effects{}, err
	}
	next, eff, err := m.ctrl.Step(ctx, s, a)
	if err != nil {
		ev := log.Warn()
		if !akinator.IsValidation(err) {
			ev = log.Error()
		}
		ev.Err(err).Str("session", id).Str("action", fmt.Sprintf("%T", a)).Msg("action rejected")
		return s.View(), akinator.Effects{}, err
	}
	if err := m.store.Save(ctx, next); err != nil {
		return s.View(), akinator.Effects{}, fmt.Errorf("save session: %w", err)
	}

	if eff.Ended {
		log.Info().Str("session", id).Str("role", string(next.Role)).Str("tier", string(next.Tier)).
			Str("reason", string(eff.Reason)).Int("turns", len(next.History)).Msg("game over")
		if m.opts.ExportFile != "" {
			if err := ExportTranscript(next, eff.Reason, m.opts.ExportFile); err != nil {
				log.Error().Err(err).Str("session", id).Msg("failed to export transcript")
			}
		}
	}
	return next.View(), eff, nil
}

// View returns the session as the client should see it. Unknown ids yield
// a fresh selecting-state view.
func (m *Manager) View(ctx context.Context, id string) (akinator.View, error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return akinator.View{}, err
	}
	return s.View(), nil
}

// Sessions summarises every stored session, newest first.
func (m *Manager) Sessions(ctx context.Context) ([]Summary, error) {
	all, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(all, func(s akinator.Session, _ int) Summary {
		return Summary{
			ID:          s.ID,
			Role:        s.Role,
			Tier:        s.Tier,
			State:       s.State(),
			Turns:       len(s.History),
			OracleTurns: s.OracleTurns(),
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		}
	}), nil
}

// Sweep drops sessions idle for longer than the TTL.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	if m.opts.TTL <= 0 {
		return 0, nil
	}
	n, err := m.store.Sweep(ctx, m.now().Add(-m.opts.TTL))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int("removed", n).Msg("swept idle sessions")
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if m.opts.TTL <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := m.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("session sweep failed")
			}
		}
	}
}
