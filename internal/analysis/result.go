package analysis

import (
	"errors"
	"regexp"
	"strings"
)

// Result is the artifact produced by the analyze endpoint for one video.
// It is immutable once received; the session controller only reads it.
type Result struct {
	VideoID  string    `json:"video_id"`
	Analysis *Analysis `json:"analysis"`
}

// Analysis bundles the generated artifacts attached to a video result.
type Analysis struct {
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"key_points"`
}

// ErrNoAnalysis marks a result that arrived without an analysis payload.
// A session cannot start from such a result.
var ErrNoAnalysis = errors.New("no analysis data available")

// Validate reports whether the result can back a session.
func (r *Result) Validate() error {
	if r == nil || r.Analysis == nil {
		return ErrNoAnalysis
	}
	return nil
}

// Transcript returns the transcript text, or empty when absent.
func (r *Result) Transcript() string {
	if r == nil || r.Analysis == nil {
		return ""
	}
	return r.Analysis.Transcript
}

// Summary returns the summary text, or empty when absent.
func (r *Result) Summary() string {
	if r == nil || r.Analysis == nil {
		return ""
	}
	return r.Analysis.Summary
}

// KeyPoints returns the ordered key points, possibly empty.
func (r *Result) KeyPoints() []string {
	if r == nil || r.Analysis == nil {
		return nil
	}
	return r.Analysis.KeyPoints
}

var (
	watchRegexp = regexp.MustCompile(`(?i)(?:youtube\.com/watch\?.*v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([0-9A-Za-z_-]{6,})`)
	bareRegexp  = regexp.MustCompile(`^[0-9A-Za-z_-]{6,}$`)
)

// ExtractVideoID pulls a video identifier out of a YouTube URL or accepts a
// bare identifier. It returns "" when nothing usable is found.
func ExtractVideoID(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if matches := watchRegexp.FindStringSubmatch(input); len(matches) > 1 {
		return matches[1]
	}
	if strings.Contains(input, "/") || strings.Contains(input, "?") {
		return ""
	}
	if bareRegexp.MatchString(input) {
		return input
	}
	return ""
}
