package player

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type fakeInstance struct {
	destroyed int32
}

func (f *fakeInstance) Destroy() error {
	atomic.AddInt32(&f.destroyed, 1)
	return nil
}

type fakeLoader struct {
	loads    int32
	loadErr  error
	openErr  error
	instance *fakeInstance
}

func (f *fakeLoader) Load(ctx context.Context) (Runtime, error) {
	atomic.AddInt32(&f.loads, 1)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return fakeRuntime{loader: f}, nil
}

type fakeRuntime struct {
	loader *fakeLoader
}

func (r fakeRuntime) Open(ctx context.Context, videoID string) (Instance, error) {
	if r.loader.openErr != nil {
		return nil, r.loader.openErr
	}
	if r.loader.instance == nil {
		r.loader.instance = &fakeInstance{}
	}
	return r.loader.instance, nil
}

func TestEmptyVideoIDIsImmediateErrorWithoutAcquisition(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	m := NewManager("", loader)

	phase, message := m.State()
	if phase != PhaseError {
		t.Fatalf("phase = %v, want error", phase)
	}
	if message != "Invalid video ID" {
		t.Fatalf("message = %q", message)
	}

	event := m.Acquire(context.Background())
	if event.Phase != PhaseError {
		t.Fatalf("acquire phase = %v, want error", event.Phase)
	}
	if atomic.LoadInt32(&loader.loads) != 0 {
		t.Fatal("loader must not be touched for an empty video id")
	}
}

func TestAcquireReachesReady(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	m := NewManager("abc12345", loader)

	event := m.Acquire(context.Background())
	if event.Phase != PhaseReady {
		t.Fatalf("phase = %v (%s), want ready", event.Phase, event.Message)
	}
	if event.Token != m.Token() {
		t.Fatalf("event token %q does not match manager token %q", event.Token, m.Token())
	}

	// Single-shot: a second call resolves from state, not via the loader.
	_ = m.Acquire(context.Background())
	if got := atomic.LoadInt32(&loader.loads); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestAcquireMapsLoadFailureToError(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{loadErr: errors.New("network down")}
	m := NewManager("abc12345", loader)

	event := m.Acquire(context.Background())
	if event.Phase != PhaseError {
		t.Fatalf("phase = %v, want error", event.Phase)
	}
	phase, _ := m.State()
	if phase != PhaseError {
		t.Fatal("error phase must be terminal on the manager")
	}
}

func TestAcquireMapsOpenFailureToError(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{openErr: errors.New("bad window handle")}
	m := NewManager("abc12345", loader)

	if event := m.Acquire(context.Background()); event.Phase != PhaseError {
		t.Fatalf("phase = %v, want error", event.Phase)
	}
}

func TestCloseDestroysOwnedInstance(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	m := NewManager("abc12345", loader)
	_ = m.Acquire(context.Background())

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if loader.instance == nil || atomic.LoadInt32(&loader.instance.destroyed) != 1 {
		t.Fatal("instance should be destroyed exactly once")
	}
	// Close is idempotent.
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestLateAcquisitionAfterCloseReleasesInstance(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	m := NewManager("abc12345", loader)
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	event := m.Acquire(context.Background())
	if event.Phase == PhaseReady {
		t.Fatal("a closed manager must not report ready")
	}
	if loader.instance != nil && atomic.LoadInt32(&loader.instance.destroyed) == 0 {
		t.Fatal("late-arriving instance leaked after teardown")
	}
}

func TestTokensAreUniquePerManager(t *testing.T) {
	t.Parallel()

	a := NewManager("one12345", &fakeLoader{})
	b := NewManager("two12345", &fakeLoader{})
	if a.Token() == b.Token() {
		t.Fatalf("managers share token %q", a.Token())
	}
}
