// Package tuitest drives a terminal program inside a PTY and captures what it
// draws, so integration tests can assert on rendered screens.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 120
	defaultRows    = 32
	defaultTimeout = 10 * time.Second
)

// Keys commonly sent by scenarios.
var (
	KeyEnter = []byte{'\r'}
	KeyTab   = []byte{'\t'}
	KeyEsc   = []byte{27}
	KeyCtrlC = []byte{3}
	KeyCtrlT = []byte{20}
)

// Keystroke is one scripted input: wait Delay, then write Bytes to the PTY.
type Keystroke struct {
	Delay time.Duration
	Bytes []byte
}

// Type builds a keystroke that enters text with no preceding delay.
func Type(text string) Keystroke {
	return Keystroke{Bytes: []byte(text)}
}

// Press wraps a key byte sequence with an optional settle delay before it.
func Press(delay time.Duration, key []byte) Keystroke {
	return Keystroke{Delay: delay, Bytes: key}
}

// Scenario describes one scripted run of the program under test.
type Scenario struct {
	Command []string
	Dir     string
	Env     []string
	Cols    int
	Rows    int
	Script  []Keystroke
	Timeout time.Duration

	// InterruptOK accepts a SIGINT-terminated exit, for scripts that end
	// with Ctrl+C.
	InterruptOK bool
}

// Session is the captured output of one scenario run.
type Session struct {
	Raw     []byte
	Screens []Screen
	Took    time.Duration
}

// Run spawns the scenario's command in a pseudo terminal, replays the script,
// and returns everything the program drew.
func Run(ctx context.Context, sc Scenario) (*Session, error) {
	if len(sc.Command) == 0 {
		return nil, errors.New("tuitest: scenario needs a command")
	}
	cols, rows := sc.Cols, sc.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := sc.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, sc.Command[0], sc.Command[1:]...)
	cmd.Dir = sc.Dir
	cmd.Env = scenarioEnv(sc.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start %s: %w", sc.Command[0], err)
	}
	defer func() { _ = ptmx.Close() }()

	var captured bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		answer := newQueryAnswerer(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				answer.Feed(buf[:n])
				_, _ = captured.Write(buf[:n])
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) || errors.Is(readErr, os.ErrClosed) {
					return
				}
				return
			}
		}
	}()

	start := time.Now()
	for _, stroke := range sc.Script {
		if stroke.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(stroke.Delay):
			}
		}
		if len(stroke.Bytes) > 0 {
			if _, err := ptmx.Write(stroke.Bytes); err != nil {
				return nil, fmt.Errorf("tuitest: send input: %w", err)
			}
		}
	}

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()

	select {
	case err := <-waited:
		if err != nil {
			interrupted := sc.InterruptOK && strings.Contains(err.Error(), "signal: interrupt")
			if !interrupted {
				return nil, fmt.Errorf("tuitest: program failed: %w", err)
			}
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: program did not exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := captured.Bytes()
	return &Session{Raw: raw, Screens: splitScreens(raw), Took: time.Since(start)}, nil
}

// Final returns the last rendered screen, or false when nothing was drawn.
func (s *Session) Final() (Screen, bool) {
	if s == nil || len(s.Screens) == 0 {
		return Screen{}, false
	}
	return s.Screens[len(s.Screens)-1], true
}

// SawText reports whether any screen in the session contained the substring.
func (s *Session) SawText(substr string) bool {
	for _, screen := range s.Screens {
		if strings.Contains(screen.Plain, substr) {
			return true
		}
	}
	return false
}

func scenarioEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}
