package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nshetty/vidlens/internal/analysis"
	"github.com/nshetty/vidlens/internal/api"
	"github.com/nshetty/vidlens/internal/conversation"
	"github.com/nshetty/vidlens/internal/player"
	"github.com/nshetty/vidlens/internal/store"
)

type analyzeResultMsg struct {
	result *analysis.Result
	err    error
}

type askResultMsg struct {
	videoID string
	answer  api.Answer
	err     error
}

type playerEventMsg struct {
	event player.Event
}

type copyResetMsg struct {
	seq int
}

type revealTickMsg struct{}

type stateSavedMsg struct {
	err error
}

func analyzeJob(client *api.Client, url string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 3*time.Minute)
		defer cancel()
		result, err := client.Analyze(ctx, url)
		if err != nil {
			return analyzeResultMsg{err: err}, err
		}
		return analyzeResultMsg{result: result}, nil
	}
}

func askJob(client *api.Client, videoID, question, mode string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		answer, err := client.Ask(ctx, videoID, question, mode)
		return askResultMsg{videoID: videoID, answer: answer, err: err}, err
	}
}

func playerJob(manager *player.Manager) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, time.Minute)
		defer cancel()
		event := manager.Acquire(ctx)
		if event.Phase == player.PhaseError {
			return playerEventMsg{event: event}, errors.New(event.Message)
		}
		return playerEventMsg{event: event}, nil
	}
}

func saveStateJob(path string, state store.State) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		err := store.Save(path, state)
		return stateSavedMsg{err: err}, err
	}
}

// answerEntries fans one decoded answer into conversation entries. A dual
// answer becomes two assistant entries, transcript-grounded first, sharing
// one timestamp.
func answerEntries(answer api.Answer, at time.Time) []conversation.Entry {
	switch answer.Kind {
	case api.AnswerDual:
		return []conversation.Entry{
			{Role: conversation.RoleAssistant, Text: answer.TranscriptText, CreatedAt: &at, Mode: conversation.ModeTranscript},
			{Role: conversation.RoleAssistant, Text: answer.GeneralText, CreatedAt: &at, Mode: conversation.ModeBeyond},
		}
	default:
		return []conversation.Entry{
			{Role: conversation.RoleAssistant, Text: answer.Text, CreatedAt: &at, Mode: conversation.Mode(answer.Mode)},
		}
	}
}
