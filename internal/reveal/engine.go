package reveal

import (
	"sync"
	"time"
)

// Defaults mirroring the entrance-animation contract: a target counts as
// intersecting once at least 10% of it sits inside the viewport extended by a
// two-row margin.
const (
	DefaultThreshold   = 0.1
	DefaultMarginLines = 2
)

type targetKind int

const (
	kindOneShot targetKind = iota
	kindStaggered
)

type target struct {
	kind      targetKind
	itemCount int
	delay     time.Duration
}

// Engine flips one-shot or staggered "visible" flags for named targets as the
// host reports viewport intersections. It is pure UI sequencing: no knowledge
// of session state, reusable by any visual section.
//
// The host owns geometry; Engine owns the reveal semantics and the stagger
// timers. Timers fire on their own goroutines, so state is mutex-guarded and
// the optional notify callback lets the host request a re-render.
type Engine struct {
	notify func()

	mu       sync.Mutex
	targets  map[string]target
	visible  map[string]bool
	revealed map[string]map[int]bool
	timers   []*time.Timer
	closed   bool
}

// NewEngine returns an engine. notify may be nil; when set it is invoked
// (without the lock held) after every reveal state change.
func NewEngine(notify func()) *Engine {
	return &Engine{
		notify:   notify,
		targets:  map[string]target{},
		visible:  map[string]bool{},
		revealed: map[string]map[int]bool{},
	}
}

// Observe registers a one-shot target: the first intersection marks it
// visible and ends observation. It never reverts.
func (e *Engine) Observe(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.visible[id] {
		return
	}
	e.targets[id] = target{kind: kindOneShot}
}

// ObserveStaggered registers a container whose itemCount children reveal one
// by one, delay apart, once the container first intersects. Instances are
// independent; indices are local to the container.
func (e *Engine) ObserveStaggered(id string, itemCount int, delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if _, done := e.revealed[id]; done {
		return
	}
	e.targets[id] = target{kind: kindStaggered, itemCount: itemCount, delay: delay}
}

// Intersect reports that the named target currently intersects the viewport.
// Unknown or already-resolved targets are ignored, so the host may call this
// on every scroll without bookkeeping.
func (e *Engine) Intersect(id string) {
	e.mu.Lock()
	t, ok := e.targets[id]
	if !ok || e.closed {
		e.mu.Unlock()
		return
	}
	delete(e.targets, id)

	switch t.kind {
	case kindOneShot:
		e.visible[id] = true
		e.mu.Unlock()
		e.ping()
	case kindStaggered:
		set := map[int]bool{}
		e.revealed[id] = set
		for i := 0; i < t.itemCount; i++ {
			index := i
			if index == 0 || t.delay <= 0 {
				set[index] = true
				continue
			}
			timer := time.AfterFunc(time.Duration(index)*t.delay, func() {
				e.mu.Lock()
				if e.closed {
					e.mu.Unlock()
					return
				}
				set[index] = true
				e.mu.Unlock()
				e.ping()
			})
			e.timers = append(e.timers, timer)
		}
		e.mu.Unlock()
		e.ping()
	default:
		e.mu.Unlock()
	}
}

// Visible reports whether a one-shot target has been revealed.
func (e *Engine) Visible(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible[id]
}

// Revealed reports whether item index of a staggered container is revealed.
func (e *Engine) Revealed(id string, index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revealed[id][index]
}

// RevealedCount returns how many items of a staggered container are revealed.
func (e *Engine) RevealedCount(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.revealed[id])
}

// Close stops all pending stagger timers. Revealed state is kept so a final
// render stays consistent, but nothing fires against a torn-down view.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	timers := e.timers
	e.timers = nil
	e.mu.Unlock()
	for _, timer := range timers {
		timer.Stop()
	}
}

func (e *Engine) ping() {
	if e.notify != nil {
		e.notify()
	}
}

// Intersects is the geometry helper hosts use before calling Intersect: it
// reports whether a block of height lines starting at top crosses the
// viewport [viewTop, viewTop+viewHeight) extended by margin, with at least
// threshold of its lines inside.
func Intersects(top, height, viewTop, viewHeight, margin int, threshold float64) bool {
	if height <= 0 || viewHeight <= 0 {
		return false
	}
	lo := viewTop - margin
	hi := viewTop + viewHeight + margin
	start := max(top, lo)
	end := min(top+height, hi)
	overlap := end - start
	if overlap <= 0 {
		return false
	}
	return float64(overlap) >= threshold*float64(height)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
