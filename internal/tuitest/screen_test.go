package tuitest

import (
	"bytes"
	"testing"
)

func TestSplitScreens(t *testing.T) {
	t.Parallel()

	raw := []byte("\x1b[2J\x1b[Hfirst screen\nline two   \n\n\x1b[2J\x1b[H\x1b[1msecond\x1b[0m screen")
	screens := splitScreens(raw)

	if len(screens) != 2 {
		t.Fatalf("screens = %d, want 2", len(screens))
	}
	if screens[0].Plain != "first screen\nline two" {
		t.Fatalf("first screen = %q", screens[0].Plain)
	}
	if screens[1].Plain != "second screen" {
		t.Fatalf("second screen = %q", screens[1].Plain)
	}
}

func TestSessionSawText(t *testing.T) {
	t.Parallel()

	s := &Session{Screens: []Screen{{Plain: "hello"}, {Plain: "goodbye world"}}}
	if !s.SawText("goodbye") {
		t.Fatal("substring in a later screen not found")
	}
	if s.SawText("missing") {
		t.Fatal("reported text that never rendered")
	}
	if _, ok := s.Final(); !ok {
		t.Fatal("final screen should exist")
	}
}

func TestQueryAnswererRepliesToCursorProbe(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	q := newQueryAnswerer(&out)
	q.Feed([]byte("some output \x1b[6n more output"))

	if got := out.String(); got != "\x1b[1;1R" {
		t.Fatalf("reply = %q", got)
	}
}

func TestQueryAnswererHandlesSplitReads(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	q := newQueryAnswerer(&out)
	q.Feed([]byte("\x1b]11"))
	q.Feed([]byte(";?\x07"))

	if out.Len() == 0 {
		t.Fatal("query split across reads was not answered")
	}
}
