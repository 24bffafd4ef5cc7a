package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nshetty/vidlens/internal/conversation"
	"github.com/nshetty/vidlens/internal/player"
)

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Underline(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#b8c0e0")).Italic(true)
	activeTabStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#f4a261")).Padding(0, 1)
	inactiveTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	copiedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Italic(true)
	playerBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#e76f51")).Padding(0, 2)
	modeBadgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	userLabelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	botLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114"))
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffb4a2"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
)

var logoArtLines = []string{
	`__     ___     _ _`,
	`\ \   / (_) __| | |    ___ _ __  ___`,
	` \ \ / /| |/ _' | |   / _ \ '_ \/ __|`,
	`  \ V / | | (_| | |__|  __/ | | \__ \`,
	`   \_/  |_|\__,_|_____\___|_| |_|___/`,
}

func (m *model) View() string {
	switch m.stage {
	case stageLanding:
		return m.viewLanding()
	case stageAnalyzing:
		return m.viewAnalyzing()
	case stageSession:
		return m.viewSession()
	case stageNoAnalysis:
		return m.viewNoAnalysis()
	default:
		return ""
	}
}

func (m *model) viewLanding() string {
	m.refreshLandingIfDirty()
	parts := []string{
		m.landingView.View(),
		sectionHeaderStyle.Render("Video URL"),
		m.urlInput.View(),
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	parts = append(parts, helperStyle.Render("Enter: analyze • ↑/↓: scroll • Esc: quit"))
	return joinNonEmpty(parts)
}

func (m *model) viewAnalyzing() string {
	return joinNonEmpty([]string{
		renderLogo(),
		taglineStyle.Render(heroTagline),
		fmt.Sprintf("%s Analyzing video… this can take a minute.", m.spinner.View()),
		helperStyle.Render("Fetching the transcript, summary, and key points."),
	})
}

// refreshLandingIfDirty rebuilds the landing marketing content and records
// every section's line span for the reveal engine.
func (m *model) refreshLandingIfDirty() {
	if !m.landingDirty {
		return
	}
	content, spans := m.buildLandingContent()
	m.sectionSpans = spans
	m.landingView.SetContent(content)
	m.landingDirty = false
}

func (m *model) buildLandingContent() (string, map[string]span) {
	cb := &contentBuilder{}
	spans := map[string]span{}
	wrap := m.wrapWidth(4)

	section := func(id string, render func()) {
		top := cb.Line()
		render()
		spans[id] = span{top: top, height: cb.Line() - top}
		cb.WriteRune('\n')
	}

	section(anchorHero, func() {
		m.writeRevealed(cb, anchorHero, joinNonEmpty([]string{
			renderLogo(),
			taglineStyle.Render(heroTagline),
			helperStyle.Render(wordwrap.String("Paste any YouTube link and get the transcript, a summary, and the key points before you press play.", wrap)),
		}))
	})

	section(anchorFeatures, func() {
		cb.WriteString(sectionHeaderStyle.Render("Why VidLens"))
		cb.WriteRune('\n')
		features := [featureCount]string{
			"Full transcript, ready to read and copy.",
			"A tight summary of what the video actually covers.",
			"Key points you can skim in seconds.",
			"Three answer modes for follow-up questions.",
		}
		for i, feature := range features {
			line := "  • " + feature
			if m.reveal.Revealed(anchorFeatures, i) {
				cb.WriteString(line)
			} else {
				cb.WriteString(dimStyle.Render(line))
			}
			cb.WriteRune('\n')
		}
	})

	section(anchorSteps, func() {
		cb.WriteString(sectionHeaderStyle.Render("How it works"))
		cb.WriteRune('\n')
		steps := []string{
			"1. Paste a YouTube URL or a bare video ID.",
			"2. We pull the transcript and analyze it.",
			"3. Read, copy, and ask questions in the mode you want.",
		}
		m.writeRevealed(cb, anchorSteps, strings.Join(steps, "\n"))
	})

	section(anchorFAQ, func() {
		cb.WriteString(sectionHeaderStyle.Render("FAQ"))
		cb.WriteRune('\n')
		faq := []string{
			"Q: Does the video need captions?",
			"A: Yes, analysis works from the video's transcript.",
			"",
			"Q: Is my session saved?",
			"A: The last analysis is restored when you come back.",
		}
		m.writeRevealed(cb, anchorFAQ, strings.Join(faq, "\n"))
	})

	return cb.String(), spans
}

// writeRevealed writes body normally once the section has been revealed and
// dimmed before that. Both renderings occupy the same number of lines so the
// recorded spans stay valid.
func (m *model) writeRevealed(cb *contentBuilder, id, body string) {
	if m.reveal.Visible(id) {
		cb.WriteString(body)
	} else {
		cb.WriteString(dimStyle.Render(body))
	}
	cb.WriteRune('\n')
}

func (m *model) viewSession() string {
	if m.result == nil {
		return m.viewNoAnalysis()
	}
	m.refreshChatIfDirty()
	parts := []string{
		m.playerPanel(),
		m.tabsRow(),
		m.artifactPanel(),
		m.transcriptPanel(),
		sectionHeaderStyle.Render("Chat"),
		m.chatView.View(),
		m.chatInput.View(),
		m.modeHintLine(),
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	parts = append(parts, m.statusBar())
	return joinNonEmpty(parts)
}

func (m *model) playerPanel() string {
	var status string
	switch m.playerPhase {
	case player.PhaseReady:
		status = "▶ Player ready"
	case player.PhaseError:
		status = errorStyle.Render("✕ " + m.playerMessage)
	default:
		status = fmt.Sprintf("%s Loading player…", m.spinner.View())
	}
	header := titleStyle.Render("VidLens") + "  " + helperStyle.Render("video "+m.videoID)
	return joinNonEmpty([]string{header, playerBoxStyle.Render(status)})
}

func (m *model) tabsRow() string {
	summary := inactiveTabStyle.Render("Summary")
	keyPoints := inactiveTabStyle.Render("Key Points")
	if m.activeTab == tabKeyPoints {
		keyPoints = activeTabStyle.Render("Key Points")
	} else {
		summary = activeTabStyle.Render("Summary")
	}
	row := summary + " " + keyPoints
	if m.copiedItem == copyTagSummary || m.copiedItem == copyTagKeyPoints {
		row += "  " + copiedStyle.Render("Copied!")
	}
	return row
}

func (m *model) artifactPanel() string {
	wrap := m.wrapWidth(4)
	if m.activeTab == tabKeyPoints {
		points := m.result.KeyPoints()
		if len(points) == 0 {
			return helperStyle.Render("No key points generated for this video")
		}
		lines := make([]string, 0, len(points))
		for _, point := range points {
			lines = append(lines, wordwrap.String("  • "+point, wrap))
		}
		return strings.Join(lines, "\n")
	}
	summary := m.result.Summary()
	if strings.TrimSpace(summary) == "" {
		return helperStyle.Render("No summary available")
	}
	return wordwrap.String(summary, wrap)
}

func (m *model) transcriptPanel() string {
	header := sectionHeaderStyle.Render("Transcript") + "  " + helperStyle.Render("Ctrl+Y to copy")
	if m.copiedItem == copyTagTranscript {
		header += "  " + copiedStyle.Render("Copied!")
	}
	transcript := m.result.Transcript()
	if strings.TrimSpace(transcript) == "" {
		return joinNonEmpty([]string{header, helperStyle.Render("Transcript not available")})
	}
	body := wordwrap.String(transcript, m.wrapWidth(4))
	lines := strings.Split(body, "\n")
	const previewLines = 6
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], helperStyle.Render("…"))
	}
	return joinNonEmpty([]string{header, strings.Join(lines, "\n")})
}

func (m *model) refreshChatIfDirty() {
	if !m.chatDirty || m.conv == nil {
		return
	}
	cb := &contentBuilder{}
	wrap := m.wrapWidth(6)
	entries := m.conv.Entries()
	for idx, entry := range entries {
		cb.WriteString(m.entryLabel(entry))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(entry.Text, wrap), "  "))
		cb.WriteRune('\n')
		if idx < len(entries)-1 {
			cb.WriteRune('\n')
		}
	}
	if m.pendingAsks > 0 {
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render("Thinking…"))
		cb.WriteRune('\n')
	}
	m.chatView.SetContent(cb.String())
	m.chatView.GotoBottom()
	m.chatDirty = false
}

func (m *model) entryLabel(entry conversation.Entry) string {
	label := botLabelStyle.Render("VidLens")
	if entry.Role == conversation.RoleUser {
		label = userLabelStyle.Render("You")
	}
	if entry.Mode != conversation.ModeNone {
		if hint, ok := modeHints[entry.Mode]; ok {
			label += " " + modeBadgeStyle.Render(hint.Title)
		}
	}
	return label
}

func (m *model) modeHintLine() string {
	hint := modeHints[m.answerMode]
	return joinNonEmpty([]string{
		modeBadgeStyle.Render(hint.Title) + " " + helperStyle.Render(hint.Description),
		helperStyle.Render(fmt.Sprintf("e.g. %q • Ctrl+T: switch mode • Tab: tabs • Ctrl+S: copy tab • Esc: exit", hint.Example)),
	})
}

func (m *model) statusBar() string {
	stats := []string{fmt.Sprintf("mode: %s", m.answerMode)}
	if m.pendingAsks > 0 {
		stats = append(stats, fmt.Sprintf("pending answers: %d", m.pendingAsks))
	}
	for _, kind := range []jobKind{jobKindAnalyze, jobKindAsk, jobKindPlayer, jobKindSave} {
		snapshot, ok := m.jobHistory[kind]
		if !ok {
			continue
		}
		stats = append(stats, fmt.Sprintf("%s: %s", kind, snapshot.Status))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) viewNoAnalysis() string {
	return joinNonEmpty([]string{
		renderLogo(),
		titleStyle.Render("No analysis available"),
		helperStyle.Render("We couldn't find usable analysis data for this video."),
		helperStyle.Render("Press Enter to start over."),
	})
}

func renderLogo() string {
	lines := make([]string, len(logoArtLines))
	for i, line := range logoArtLines {
		lines[i] = logoFaceStyle.Render(line)
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) wrapWidth(margin int) int {
	width := m.landingView.Width - margin
	if width < minViewportWidth-margin {
		width = minViewportWidth - margin
	}
	return width
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "\n")
}

func indentMultiline(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
