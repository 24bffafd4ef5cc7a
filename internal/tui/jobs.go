package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

const (
	jobKindAnalyze jobKind = "analyze"
	jobKindAsk     jobKind = "ask"
	jobKindPlayer  jobKind = "player"
	jobKindSave    jobKind = "save"
)

type jobStatus string

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID      string
	Kind    jobKind
	Status  jobStatus
	Err     string
	Elapsed time.Duration
}

// jobUpdateMsg reports job progress to the model. The running update carries
// no payload; the completion update wraps the runner's own result message so
// the model can re-dispatch it after recording the snapshot.
type jobUpdateMsg struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus numbers asynchronous jobs and turns each into a two-message command
// sequence: running first, then the outcome. Failures are logged and folded
// into the snapshot; they never escape as anything but ordinary messages.
type jobBus struct {
	seq int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) Start(kind jobKind, run jobRunner) tea.Cmd {
	id := fmt.Sprintf("%s#%d", kind, atomic.AddInt64(&b.seq, 1))
	started := time.Now()

	announce := func() tea.Msg {
		return jobUpdateMsg{Snapshot: jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning}}
	}
	execute := func() tea.Msg {
		payload, err := run(context.Background())
		snapshot := jobSnapshot{
			ID:      id,
			Kind:    kind,
			Status:  jobStatusSucceeded,
			Elapsed: time.Since(started),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
			log.Printf("[jobs] %s failed after %s: %v", id, snapshot.Elapsed, err)
		} else {
			log.Printf("[jobs] %s done in %s", id, snapshot.Elapsed)
		}
		return jobUpdateMsg{Snapshot: snapshot, Payload: payload}
	}
	return tea.Sequence(announce, execute)
}
