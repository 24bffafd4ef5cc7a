package tui

import (
	"github.com/nshetty/vidlens/internal/conversation"
)

type stage int

const (
	stageLanding stage = iota
	stageAnalyzing
	stageSession
	stageNoAnalysis
)

// Content tabs over the analysis artifacts.
type tab string

const (
	tabSummary   tab = "summary"
	tabKeyPoints tab = "keyPoints"
)

// Copy indicator tags.
const (
	copyTagTranscript = "transcript"
	copyTagSummary    = "summary"
	copyTagKeyPoints  = "keyPoints"
)

// Landing section anchors observed by the reveal engine.
const (
	anchorHero     = "hero"
	anchorFeatures = "features"
	anchorSteps    = "steps"
	anchorFAQ      = "faq"
)

const featureCount = 4

const heroTagline = "Understand any video before you watch it."

const apologyText = "Sorry, I couldn't process your question right now."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

// modeHint describes one answer mode for the chat hint panel.
type modeHint struct {
	Title       string
	Description string
	Example     string
}

var modeOrder = []conversation.Mode{
	conversation.ModeTranscript,
	conversation.ModeBuddy,
	conversation.ModeBeyond,
}

var modeHints = map[conversation.Mode]modeHint{
	conversation.ModeTranscript: {
		Title:       "Transcript Mode",
		Description: "Answers strictly from video content",
		Example:     "What does the video say about...?",
	},
	conversation.ModeBuddy: {
		Title:       "Buddy Mode",
		Description: "General knowledge answers (ignores transcript)",
		Example:     "Hey buddy, tell me about...",
	},
	conversation.ModeBeyond: {
		Title:       "Beyond Mode",
		Description: "Transcript answer + general knowledge",
		Example:     "Beyond the transcript, explain...",
	},
}
