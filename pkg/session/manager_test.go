package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, sessionID, state)
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func newEngine(t *testing.T) *runtime.Engine {
	t.Helper()
	f := flow.MustNew("multi", "Multi", []domain.Question{
		{Key: "pick", Prompt: "Pick", Kind: domain.KindMulti, Options: []string{"a", "b", "c", "d", "e", "f", "g", "h"}},
	})
	loader, err := memory.NewLoader(f)
	require.NoError(t, err)
	return runtime.NewEngine(loader)
}

func TestManager_UpdateSerialisesWriters(t *testing.T) {
	eng := newEngine(t)
	manager := session.NewManager(&SlowStore{memory.NewStore()})
	ctx := context.Background()

	_, err := manager.Start(ctx, eng, "multi", "race-test")
	require.NoError(t, err)

	options := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, opt := range options {
		wg.Add(1)
		go func(opt string) {
			defer wg.Done()
			_, err := manager.Update(ctx, "race-test", func(s *domain.State) (*domain.State, error) {
				return eng.Submit(ctx, s, s.Current, opt)
			})
			assert.NoError(t, err)
		}(opt)
	}
	wg.Wait()

	state, err := manager.Load(ctx, "race-test")
	require.NoError(t, err)
	assert.ElementsMatch(t, options, state.Answers.Selected("pick"), "no toggle may be lost")
}

func TestManager_UpdateRejectionKeepsStoredState(t *testing.T) {
	eng := newEngine(t)
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()

	_, err := manager.Start(ctx, eng, "multi", "s1")
	require.NoError(t, err)

	state, err := manager.Update(ctx, "s1", func(s *domain.State) (*domain.State, error) {
		return eng.Advance(ctx, s)
	})
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)
	require.NotNil(t, state)
	assert.Equal(t, 0, state.Current)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, stored.Visited)
}

func TestManager_Start(t *testing.T) {
	eng := newEngine(t)
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	state, err := manager.Start(ctx, eng, "multi", "")
	require.NoError(t, err)
	assert.NotEmpty(t, state.SessionID, "an id is generated")

	_, err = manager.Start(ctx, eng, "multi", state.SessionID)
	assert.ErrorIs(t, err, session.ErrSessionExists, "existing sessions are never overwritten")

	_, err = manager.Start(ctx, eng, "missing", "other")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)

	_, err = manager.Update(ctx, "unknown", func(s *domain.State) (*domain.State, error) { return s, nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked++
		return nil
	}, nil
}

type failingLocker struct{}

func (failingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("redis down")
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()

	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	require.NoError(t, manager.Save(ctx, "s1", domain.NewState("s1", "multi", 0)))
	_, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s1"}, locker.locked)
	assert.Equal(t, 2, locker.unlocked)

	broken := session.NewManager(memory.NewStore(), session.WithLocker(failingLocker{}))
	err = broken.Save(ctx, "s1", domain.NewState("s1", "multi", 0))
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
