package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/service/worker"
)

// mockEngine records sync pass invocations
type mockEngine struct {
	mu     sync.Mutex
	calls  []int
	err    error
	notify chan struct{}
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		notify: make(chan struct{}, 16),
	}
}

func (m *mockEngine) SyncRecent(ctx context.Context, days int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, days)
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return m.err
}

func (m *mockEngine) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockEngine) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func waitForCall(t *testing.T, engine *mockEngine) {
	t.Helper()
	select {
	case <-engine.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sync pass")
	}
}

func TestSyncWorker_ImmediateInitialSync(t *testing.T) {
	ctx := context.Background()
	engine := newMockEngine()

	// Long interval: only the initial pass should fire
	w := worker.NewSyncWorker(engine, 10*time.Minute, 2)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer w.Stop()

	waitForCall(t, engine)

	engine.mu.Lock()
	days := engine.calls[0]
	engine.mu.Unlock()
	if days != 2 {
		t.Errorf("expected initial pass with days=2, got %d", days)
	}
}

func TestSyncWorker_PeriodicPasses(t *testing.T) {
	ctx := context.Background()
	engine := newMockEngine()

	w := worker.NewSyncWorker(engine, 50*time.Millisecond, 1)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer w.Stop()

	// Initial pass plus at least one tick
	waitForCall(t, engine)
	waitForCall(t, engine)

	if engine.callCount() < 2 {
		t.Errorf("expected at least 2 passes, got %d", engine.callCount())
	}
}

func TestSyncWorker_ContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	engine := newMockEngine()
	engine.setError(goerr.New("fetch failed"))

	w := worker.NewSyncWorker(engine, 50*time.Millisecond, 1)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer w.Stop()

	// Failing passes must not kill the loop
	waitForCall(t, engine)
	waitForCall(t, engine)

	engine.setError(nil)
	waitForCall(t, engine)
}

func TestSyncWorker_StopWaitsForCompletion(t *testing.T) {
	ctx := context.Background()
	engine := newMockEngine()

	w := worker.NewSyncWorker(engine, 10*time.Minute, 1)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	waitForCall(t, engine)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestSyncWorker_DaysFloor(t *testing.T) {
	ctx := context.Background()
	engine := newMockEngine()

	w := worker.NewSyncWorker(engine, 10*time.Minute, 0)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer w.Stop()

	waitForCall(t, engine)

	engine.mu.Lock()
	days := engine.calls[0]
	engine.mu.Unlock()
	if days != 1 {
		t.Errorf("expected days floored to 1, got %d", days)
	}
}
