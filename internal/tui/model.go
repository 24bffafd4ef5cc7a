package tui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nshetty/vidlens/internal/analysis"
	"github.com/nshetty/vidlens/internal/api"
	"github.com/nshetty/vidlens/internal/conversation"
	"github.com/nshetty/vidlens/internal/player"
	"github.com/nshetty/vidlens/internal/reveal"
	"github.com/nshetty/vidlens/internal/store"
)

const (
	copyIndicatorReset = 5 * time.Second
	staggerDelay       = 150 * time.Millisecond
	revealTickEvery    = 50 * time.Millisecond
)

// Config wires runtime options into the TUI program.
type Config struct {
	API       *api.Client
	Player    player.Loader
	StatePath string
	Restore   store.State
}

// span is the rendered extent of one landing section, in viewport lines.
type span struct {
	top    int
	height int
}

type model struct {
	config Config
	stage  stage

	urlInput  textinput.Model
	chatInput textinput.Model
	spinner   spinner.Model

	landingView  viewport.Model
	chatView     viewport.Model
	width        int
	height       int
	landingDirty bool
	chatDirty    bool

	jobs       *jobBus
	jobHistory map[jobKind]jobSnapshot

	reveal       *reveal.Engine
	sectionSpans map[string]span
	staggerUntil time.Time

	videoID    string
	result     *analysis.Result
	conv       *conversation.Log
	answerMode conversation.Mode
	activeTab  tab

	manager       *player.Manager
	playerPhase   player.Phase
	playerMessage string

	analyzing   bool
	pendingAsks int

	copiedItem string
	copySeq    int

	infoMessage  string
	errorMessage string

	now            func() time.Time
	writeClipboard func(string) error
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	urlInput.Focus()
	urlInput.CharLimit = 200
	urlInput.Width = 70

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask me anything about this video…"
	chatInput.CharLimit = 400
	chatInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	landingView := viewport.New(80, 20)
	chatView := viewport.New(80, 20)

	engine := reveal.NewEngine(nil)
	engine.Observe(anchorHero)
	engine.ObserveStaggered(anchorFeatures, featureCount, staggerDelay)
	engine.Observe(anchorSteps)
	engine.Observe(anchorFAQ)

	return &model{
		config:         config,
		stage:          stageLanding,
		urlInput:       urlInput,
		chatInput:      chatInput,
		spinner:        spin,
		landingView:    landingView,
		chatView:       chatView,
		landingDirty:   true,
		jobs:           newJobBus(),
		jobHistory:     map[jobKind]jobSnapshot{},
		reveal:         engine,
		sectionSpans:   map[string]span{},
		answerMode:     conversation.ModeTranscript,
		activeTab:      tabSummary,
		infoMessage:    "Paste a YouTube link or video ID to begin.",
		now:            time.Now,
		writeClipboard: clipboard.WriteAll,
	}
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if restored := m.config.Restore; !restored.Empty() {
		if restored.Result != nil && restored.Result.Validate() == nil {
			cmds = append(cmds, m.enterSession(restored.Result, restored.ActiveTab, restored.AnswerMode))
		} else {
			m.stage = stageNoAnalysis
		}
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		playerLoading := m.stage == stageSession && m.playerPhase == player.PhaseLoading
		if m.analyzing || m.pendingAsks > 0 || playerLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshLandingIfDirty()
		return m, m.checkLandingReveals()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			return m, tea.Quit
		}
		switch m.stage {
		case stageLanding:
			return m.handleLandingKey(msg)
		case stageSession:
			return m.handleSessionKey(msg)
		case stageNoAnalysis:
			return m.handleNoAnalysisKey(msg)
		default:
			return m, nil
		}

	case jobUpdateMsg:
		m.jobHistory[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)

	case analyzeResultMsg:
		return m.handleAnalyzeResult(msg)

	case askResultMsg:
		return m.handleAskResult(msg)

	case playerEventMsg:
		if m.manager == nil || msg.event.Token != m.manager.Token() {
			return m, nil
		}
		m.playerPhase = msg.event.Phase
		m.playerMessage = msg.event.Message
		return m, nil

	case copyResetMsg:
		if msg.seq != m.copySeq {
			return m, nil
		}
		m.copiedItem = ""
		return m, nil

	case revealTickMsg:
		m.landingDirty = true
		if m.now().Before(m.staggerUntil) {
			return m, revealTick()
		}
		return m, nil

	case stateSavedMsg:
		if msg.err != nil {
			m.errorMessage = "Could not persist session state: " + msg.err.Error()
		}
		return m, nil
	}
	return m, nil
}

func revealTick() tea.Cmd {
	return tea.Tick(revealTickEvery, func(time.Time) tea.Msg {
		return revealTickMsg{}
	})
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	usable := width - viewportHorizontalPadding
	if usable < minViewportWidth {
		usable = minViewportWidth
	}
	contentHeight := height - 8
	if contentHeight < 5 {
		contentHeight = 5
	}
	m.landingView.Width = usable
	m.landingView.Height = contentHeight
	m.chatView.Width = usable
	m.chatView.Height = contentHeight / 2
	m.landingDirty = true
	m.chatDirty = true
}

func (m *model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitAnalyze()
	case tea.KeyEsc:
		m.shutdown()
		return m, tea.Quit
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.landingView, cmd = m.landingView.Update(msg)
		return m, tea.Batch(cmd, m.checkLandingReveals())
	}
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m *model) submitAnalyze() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.urlInput.Value())
	if raw == "" {
		m.errorMessage = "Enter a video URL first."
		return m, nil
	}
	if analysis.ExtractVideoID(raw) == "" {
		m.errorMessage = "That doesn't look like a YouTube link or video ID."
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = "Analyzing video…"
	m.stage = stageAnalyzing
	m.analyzing = true
	return m, tea.Batch(
		m.jobs.Start(jobKindAnalyze, analyzeJob(m.config.API, raw)),
		m.spinner.Tick,
	)
}

func (m *model) handleAnalyzeResult(msg analyzeResultMsg) (tea.Model, tea.Cmd) {
	m.analyzing = false
	if m.stage != stageAnalyzing {
		return m, nil
	}
	if msg.err != nil {
		m.stage = stageLanding
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Try another video."
		m.urlInput.Focus()
		return m, nil
	}
	if err := msg.result.Validate(); err != nil {
		m.stage = stageNoAnalysis
		m.errorMessage = ""
		return m, nil
	}
	return m, m.enterSession(msg.result, "", "")
}

// enterSession switches to the session screen for a validated result and
// kicks off the player mount plus a state save.
func (m *model) enterSession(result *analysis.Result, activeTab, answerMode string) tea.Cmd {
	m.stage = stageSession
	m.videoID = result.VideoID
	m.result = result
	m.conv = conversation.NewLog()
	m.pendingAsks = 0
	m.copiedItem = ""
	m.copySeq++
	m.errorMessage = ""
	m.infoMessage = ""
	m.chatDirty = true

	m.activeTab = tabSummary
	if t := tab(activeTab); t == tabKeyPoints {
		m.activeTab = t
	}
	m.answerMode = conversation.ModeTranscript
	if mode := conversation.Mode(answerMode); mode == conversation.ModeBuddy || mode == conversation.ModeBeyond {
		m.answerMode = mode
	}

	m.chatInput.SetValue("")
	m.chatInput.Focus()
	m.urlInput.Blur()

	m.manager = player.NewManager(m.videoID, m.config.Player)
	m.playerPhase, m.playerMessage = m.manager.State()

	cmds := []tea.Cmd{m.saveState()}
	if m.playerPhase == player.PhaseLoading {
		cmds = append(cmds,
			m.jobs.Start(jobKindPlayer, playerJob(m.manager)),
			m.spinner.Tick,
		)
	}
	return tea.Batch(cmds...)
}

func (m *model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitQuestion()
	case tea.KeyEsc:
		return m.exitToLanding()
	case tea.KeyTab:
		if m.activeTab == tabSummary {
			m.activeTab = tabKeyPoints
		} else {
			m.activeTab = tabSummary
		}
		return m, m.saveState()
	case tea.KeyCtrlT:
		m.cycleMode()
		return m, m.saveState()
	case tea.KeyCtrlY:
		return m, m.copyArtifact(copyTagTranscript, m.result.Transcript())
	case tea.KeyCtrlS:
		if m.activeTab == tabKeyPoints {
			return m, m.copyArtifact(copyTagKeyPoints, strings.Join(m.result.KeyPoints(), "\n"))
		}
		return m, m.copyArtifact(copyTagSummary, m.result.Summary())
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *model) cycleMode() {
	for i, mode := range modeOrder {
		if mode == m.answerMode {
			m.answerMode = modeOrder[(i+1)%len(modeOrder)]
			return
		}
	}
	m.answerMode = modeOrder[0]
}

// submitQuestion dispatches the typed question in the selected answer mode.
// Blank input is ignored without disturbing the chat.
func (m *model) submitQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.chatInput.Value())
	if question == "" {
		return m, nil
	}
	m.chatInput.SetValue("")
	m.conv.AppendUser(question, m.now())
	m.pendingAsks++
	m.chatDirty = true
	return m, tea.Batch(
		m.jobs.Start(jobKindAsk, askJob(m.config.API, m.videoID, question, string(m.answerMode))),
		m.spinner.Tick,
	)
}

func (m *model) handleAskResult(msg askResultMsg) (tea.Model, tea.Cmd) {
	if m.stage != stageSession || msg.videoID != m.videoID {
		return m, nil
	}
	if m.pendingAsks > 0 {
		m.pendingAsks--
	}
	m.chatDirty = true
	if msg.err != nil {
		m.conv.AppendAssistant(apologyText, conversation.ModeNone, m.now())
		return m, nil
	}
	m.conv.Append(answerEntries(msg.answer, m.now())...)
	return m, nil
}

func (m *model) copyArtifact(tag, text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		m.errorMessage = "Nothing to copy."
		return nil
	}
	if err := m.writeClipboard(text); err != nil {
		m.errorMessage = "Copy failed: " + err.Error()
		return nil
	}
	m.errorMessage = ""
	m.copiedItem = tag
	m.copySeq++
	seq := m.copySeq
	return tea.Tick(copyIndicatorReset, func(time.Time) tea.Msg {
		return copyResetMsg{seq: seq}
	})
}

// exitToLanding tears the session down: player destroyed, persisted state
// cleared, conversation discarded.
func (m *model) exitToLanding() (tea.Model, tea.Cmd) {
	if m.manager != nil {
		m.manager.Close()
		m.manager = nil
	}
	m.playerPhase = player.PhaseLoading
	m.playerMessage = ""
	m.videoID = ""
	m.result = nil
	m.conv = nil
	m.pendingAsks = 0
	m.copiedItem = ""
	m.copySeq++
	m.errorMessage = ""
	m.infoMessage = "Paste a YouTube link or video ID to begin."
	m.stage = stageLanding
	m.urlInput.SetValue("")
	m.urlInput.Focus()
	m.chatInput.Blur()
	m.landingDirty = true
	if err := store.Clear(m.config.StatePath); err != nil {
		m.errorMessage = "Could not clear saved state: " + err.Error()
	}
	return m, nil
}

func (m *model) handleNoAnalysisKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if err := store.Clear(m.config.StatePath); err != nil {
			m.errorMessage = "Could not clear saved state: " + err.Error()
		}
		m.stage = stageLanding
		m.urlInput.SetValue("")
		m.urlInput.Focus()
		m.landingDirty = true
		return m, nil
	}
	return m, nil
}

func (m *model) saveState() tea.Cmd {
	if m.config.StatePath == "" {
		return nil
	}
	state := store.State{
		VideoID:    m.videoID,
		Result:     m.result,
		ActiveTab:  string(m.activeTab),
		AnswerMode: string(m.answerMode),
	}
	return m.jobs.Start(jobKindSave, saveStateJob(m.config.StatePath, state))
}

// checkLandingReveals reports the current landing scroll window to the reveal
// engine. Returns a tick command while a staggered reveal is in flight so the
// view keeps repainting as items appear.
func (m *model) checkLandingReveals() tea.Cmd {
	var staggerStarted bool
	for id, s := range m.sectionSpans {
		if m.reveal.Visible(id) || m.reveal.RevealedCount(id) > 0 {
			continue
		}
		if reveal.Intersects(s.top, s.height, m.landingView.YOffset, m.landingView.Height, reveal.DefaultMarginLines, reveal.DefaultThreshold) {
			m.reveal.Intersect(id)
			m.landingDirty = true
			if id == anchorFeatures {
				staggerStarted = true
			}
		}
	}
	if staggerStarted {
		m.staggerUntil = m.now().Add(time.Duration(featureCount) * staggerDelay).Add(revealTickEvery)
		return revealTick()
	}
	return nil
}

func (m *model) shutdown() {
	if m.manager != nil {
		m.manager.Close()
		m.manager = nil
	}
	m.reveal.Close()
}
