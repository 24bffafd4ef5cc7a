package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nshetty/vidlens/internal/analysis"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	in := State{
		VideoID: "abc12345",
		Result: &analysis.Result{
			VideoID: "abc12345",
			Analysis: &analysis.Analysis{
				Transcript: "T",
				Summary:    "S",
				KeyPoints:  []string{"k1", "k2"},
			},
		},
		ActiveTab:  "keyPoints",
		AnswerMode: "buddy",
	}

	if err := Save(path, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.VideoID != in.VideoID || got.ActiveTab != in.ActiveTab || got.AnswerMode != in.AnswerMode {
		t.Fatalf("state mismatch: %+v", got)
	}
	if got.Result == nil || got.Result.Summary() != "S" || len(got.Result.KeyPoints()) != 2 {
		t.Fatalf("result not restored: %+v", got.Result)
	}
}

func TestLoadMissingFileReturnsZeroState(t *testing.T) {
	t.Parallel()

	got, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Empty() {
		t.Fatalf("expected empty state, got %+v", got)
	}
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := Save(path, State{VideoID: "abc"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := Clear(path); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := Clear(path); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	if got, err := Load(path); err != nil || !got.Empty() {
		t.Fatalf("state should be gone, got %+v err %v", got, err)
	}
}
