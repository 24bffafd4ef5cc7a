package player

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Phase is the lifecycle state of one embedded player instance.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Error messages surfaced in the player panel.
const (
	msgInvalidVideoID = "Invalid video ID"
	msgLoadFailed     = "Failed to load video"
	msgInitFailed     = "Player initialization failed"
)

// Loader locates the external playback runtime. Implementations must be cheap
// to call repeatedly; the underlying resolution happens once per process.
type Loader interface {
	Load(ctx context.Context) (Runtime, error)
}

// Runtime opens playback instances once the external runtime is available.
type Runtime interface {
	Open(ctx context.Context, videoID string) (Instance, error)
}

// Instance is one exclusively-owned playback resource. Destroy releases it.
type Instance interface {
	Destroy() error
}

// Event reports a terminal phase transition. Token identifies the manager
// that produced it so the controller can discard events from torn-down
// instances.
type Event struct {
	Token   string
	Phase   Phase
	Message string
}

var mountCounter int64

// Manager owns the lifecycle of one player instance for one video. The phase
// moves loading → ready or loading → error and never back; a new video needs
// a new manager.
type Manager struct {
	videoID string
	token   string
	loader  Loader

	mu       sync.Mutex
	phase    Phase
	message  string
	started  bool
	closed   bool
	instance Instance
}

// NewManager prepares a manager for videoID. An empty identifier puts the
// manager straight into the error phase; Acquire will not touch the loader.
func NewManager(videoID string, loader Loader) *Manager {
	m := &Manager{
		videoID: videoID,
		token:   fmt.Sprintf("player-%d", atomic.AddInt64(&mountCounter, 1)),
		loader:  loader,
	}
	if videoID == "" {
		m.phase = PhaseError
		m.message = msgInvalidVideoID
	}
	return m
}

// Token returns the mount token stamped on every event from this manager.
func (m *Manager) Token() string { return m.token }

// VideoID returns the identifier this manager was created for.
func (m *Manager) VideoID() string { return m.videoID }

// State reports the current phase and, in the error phase, its message.
func (m *Manager) State() (Phase, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase, m.message
}

// Acquire performs the single-shot asynchronous acquisition: load the runtime,
// open one instance, resolve to ready or error. It blocks until resolution
// and is intended to run inside the controller's job command. Repeat calls
// return the already-resolved event.
func (m *Manager) Acquire(ctx context.Context) Event {
	m.mu.Lock()
	if m.phase != PhaseLoading || m.started || m.closed {
		event := Event{Token: m.token, Phase: m.phase, Message: m.message}
		m.mu.Unlock()
		return event
	}
	m.started = true
	m.mu.Unlock()

	instance, err := m.acquire(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.phase = PhaseError
		m.message = err.Error()
		return Event{Token: m.token, Phase: m.phase, Message: m.message}
	}
	if m.closed {
		// Torn down while acquiring; release the late arrival instead of
		// leaking one player per video switch.
		_ = instance.Destroy()
		return Event{Token: m.token, Phase: m.phase, Message: m.message}
	}
	m.instance = instance
	m.phase = PhaseReady
	return Event{Token: m.token, Phase: PhaseReady}
}

func (m *Manager) acquire(ctx context.Context) (instance Instance, err error) {
	// A panicking runtime must not take down the session.
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("%s: %v", msgInitFailed, r)
		}
	}()

	runtime, err := m.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgLoadFailed, err)
	}
	instance, err = runtime.Open(ctx, m.videoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgInitFailed, err)
	}
	return instance, nil
}

// Close tears the manager down and destroys the owned instance, if any.
// The manager is unusable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.instance == nil {
		return nil
	}
	instance := m.instance
	m.instance = nil
	return instance.Destroy()
}
