package reveal

import (
	"testing"
	"time"
)

func TestOneShotVisibilityNeverReverts(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	defer e.Close()

	e.Observe("hero")
	if e.Visible("hero") {
		t.Fatal("target should start hidden")
	}

	e.Intersect("hero")
	if !e.Visible("hero") {
		t.Fatal("first intersection should reveal the target")
	}

	// Observation stopped: re-registering and re-intersecting changes nothing.
	e.Observe("hero")
	e.Intersect("hero")
	if !e.Visible("hero") {
		t.Fatal("revealed target must stay revealed")
	}
}

func TestIntersectUnknownTargetIsIgnored(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	defer e.Close()

	e.Intersect("never-observed")
	if e.Visible("never-observed") {
		t.Fatal("unobserved target must not become visible")
	}
}

func TestStaggeredRevealTiming(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	defer e.Close()

	const delay = 100 * time.Millisecond
	e.ObserveStaggered("features", 4, delay)
	e.Intersect("features")

	if !e.Revealed("features", 0) {
		t.Fatal("index 0 should reveal immediately upon intersection")
	}
	if e.Revealed("features", 3) {
		t.Fatal("index 3 should not be revealed immediately")
	}

	deadline := time.Now().Add(2 * time.Second)
	for e.RevealedCount("features") < 4 {
		if time.Now().After(deadline) {
			t.Fatalf("stagger never completed, revealed %d/4", e.RevealedCount("features"))
		}
		time.Sleep(10 * time.Millisecond)
	}

	for i := 0; i < 4; i++ {
		if !e.Revealed("features", i) {
			t.Fatalf("index %d missing from revealed set", i)
		}
	}
}

func TestStaggeredInstancesAreIndependent(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	defer e.Close()

	e.ObserveStaggered("faq", 2, 0)
	e.ObserveStaggered("steps", 3, 0)
	e.Intersect("faq")

	if got := e.RevealedCount("faq"); got != 2 {
		t.Fatalf("faq revealed %d items, want 2", got)
	}
	if got := e.RevealedCount("steps"); got != 0 {
		t.Fatalf("steps revealed %d items before intersecting, want 0", got)
	}
}

func TestCloseStopsPendingTimers(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	e.ObserveStaggered("items", 3, time.Hour)
	e.Intersect("items")
	e.Close()

	if got := e.RevealedCount("items"); got != 1 {
		t.Fatalf("only index 0 should be revealed after Close, got %d", got)
	}
}

func TestIntersectsGeometry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		top, height         int
		viewTop, viewHeight int
		want                bool
	}{
		{"fully inside", 10, 4, 8, 20, true},
		{"above viewport", 0, 4, 20, 10, false},
		{"below viewport", 50, 4, 0, 10, false},
		{"within margin", 11, 4, 15, 10, true},
		{"tiny overlap below threshold", 0, 100, 97, 10, false},
		{"zero height", 5, 0, 0, 10, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Intersects(tt.top, tt.height, tt.viewTop, tt.viewHeight, DefaultMarginLines, DefaultThreshold)
			if got != tt.want {
				t.Fatalf("Intersects(top=%d,h=%d,viewTop=%d,viewH=%d) = %v, want %v",
					tt.top, tt.height, tt.viewTop, tt.viewHeight, got, tt.want)
			}
		})
	}
}
