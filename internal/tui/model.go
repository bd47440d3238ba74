// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/tuisay/internal/capture"
	"github.com/verte-zerg/tuisay/internal/model"
	"github.com/verte-zerg/tuisay/internal/practice"
	"github.com/verte-zerg/tuisay/internal/speech"
	statsPkg "github.com/verte-zerg/tuisay/internal/stats"
)

const sparkWindow = 20

// captureMsg carries one capture outcome into the Update loop.
type captureMsg struct {
	ev capture.Event
}

// Model implements the Bubble Tea practice UI. Its Update loop is the only
// place the controller is driven from.
type Model struct {
	ctrl *practice.Controller

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	board   table.Model

	showBoard bool
	notice    string

	width  int
	height int
}

var (
	roundStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	wordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	listenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	heardStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	feedbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice TUI model around ctrl.
func NewModel(ctrl *practice.Controller) *Model {
	m := &Model{
		ctrl:    ctrl,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(listenStyle)),
		board:   newScoreboard(),
	}
	if !ctrl.CanCapture() {
		m.notice = describeError(speech.ErrCapabilityUnavailable)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.ctrl.Events())
}

func waitForEvent(events <-chan capture.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return captureMsg{ev: ev}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case captureMsg:
		m.applyEvent(msg.ev)
		return m, waitForEvent(m.ctrl.Events())
	case spinner.TickMsg:
		if m.ctrl.State().Status != model.StatusListening {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Listen):
		m.notice = ""
		if err := m.ctrl.ToggleCapture(); err != nil {
			m.notice = describeError(err)
			return m, nil
		}
		if m.ctrl.State().Status == model.StatusListening {
			return m, m.spinner.Tick
		}
		return m, nil
	case key.Matches(msg, m.keys.Speak):
		if !m.ctrl.CanAnnounce() {
			m.notice = "Speech synthesis is not available; see `tuisay doctor`."
			return m, nil
		}
		m.ctrl.AnnounceCurrentWord()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.notice = ""
		m.ctrl.StartNewRound()
		return m, nil
	case key.Matches(msg, m.keys.Board):
		m.showBoard = !m.showBoard
		m.refreshBoard()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) applyEvent(ev capture.Event) {
	out, ok := m.ctrl.HandleEvent(ev)
	if !ok {
		return
	}
	if out.Err != nil {
		m.notice = describeError(out.Err)
		return
	}
	m.notice = ""
	m.refreshBoard()
}

func (m *Model) refreshBoard() {
	m.board.SetRows(scoreboardRows(m.ctrl.Tally().Words()))
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	footer := m.renderFooter()
	helpView := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, content, helpView, footer)
	}
	bottom := lipgloss.JoinVertical(lipgloss.Center, helpView, footer)
	bodyHeight := m.height - lipgloss.Height(bottom)
	if bodyHeight < lipgloss.Height(content) {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, bottom)
}

func (m *Model) renderContent() string {
	s := m.ctrl.State()
	lines := []string{
		roundStyle.Render(fmt.Sprintf("Round %d", s.Round)),
		"",
		promptStyle.Render("Say this word:"),
		wordStyle.Render(strings.ToUpper(s.Word)),
		"",
	}
	if s.Status == model.StatusListening {
		lines = append(lines, m.spinner.View()+listenStyle.Render(" Listening..."))
	} else {
		lines = append(lines, promptStyle.Render("Press space to speak"))
	}
	if s.Last != nil {
		lines = append(lines, "")
		lines = append(lines, renderAttempt(*s.Last)...)
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.showBoard {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", boardStyle.Render(m.board.View()))
	}
	return content
}

func renderAttempt(a model.Attempt) []string {
	heard := a.Transcript
	if heard == "" {
		heard = "(nothing)"
	}
	score := lipgloss.NewStyle().
		Foreground(scoreColor(a.Result.Score)).
		Bold(true).
		Render(fmt.Sprintf("%d%%", a.Result.Score))
	scoreLine := "Score: " + score
	if a.Result.SoundsAlike && a.Result.Category != model.Excellent {
		scoreLine += promptStyle.Render("  (sounds alike)")
	}
	return []string{
		heardStyle.Render(fmt.Sprintf("You said: %q", heard)),
		scoreLine,
		feedbackStyle.Render(a.Result.Category.Message()),
	}
}

// scoreColor runs from red at 0 through yellow to green at 100 by using the
// score as an HSL hue.
func scoreColor(score int) lipgloss.Color {
	return lipgloss.Color(colorful.Hsl(float64(score), 1, 0.5).Hex())
}

func (m *Model) renderFooter() string {
	s := m.ctrl.State()
	tally := m.ctrl.Tally()
	segments := []string{
		fmt.Sprintf("Round %d", s.Round),
		fmt.Sprintf("Attempts %d", tally.Count()),
	}
	if tally.Count() > 0 {
		segments = append(segments, fmt.Sprintf("Avg %.1f · Best %d", tally.Average(), tally.Best()))
		scores := tally.Scores()
		if len(scores) > sparkWindow {
			scores = scores[len(scores)-sparkWindow:]
		}
		segments = append(segments, "["+statsPkg.Sparkline(scores)+"]")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func describeError(err error) string {
	if errors.Is(err, speech.ErrCapabilityUnavailable) {
		return "Speech recognition is not available; see `tuisay doctor`."
	}
	var recErr *speech.RecognitionError
	if !errors.As(err, &recErr) {
		return fmt.Sprintf("Recognition failed: %v", err)
	}
	switch recErr.Code {
	case speech.CodeNoSpeech:
		return "No speech detected. Try again."
	case speech.CodeNotAllowed:
		return "Microphone access was denied."
	case speech.CodeAudioCapture:
		return "Could not record audio. Check the microphone."
	case speech.CodeNetwork:
		return "Recognition service unreachable."
	default:
		return fmt.Sprintf("Recognition failed (%s).", recErr.Code)
	}
}
