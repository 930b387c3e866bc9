package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nmkale/subtide/internal/logging"
	"github.com/nmkale/subtide/internal/media"
	"github.com/nmkale/subtide/internal/options"
	"github.com/nmkale/subtide/internal/subtitle"
	"github.com/nmkale/subtide/internal/timing"
	"github.com/nmkale/subtide/internal/wave"
)

// timer messages
type loadTickMsg struct{}
type scrollTickMsg struct{}

// Model is the interactive timing view: the audio display on top of the
// active subtitle document.
type Model struct {
	doc        *subtitle.Document
	sel        *subtitle.SelectionController
	controller *timing.Controller
	display    *wave.Display
	provider   media.Provider
	videoPos   *timing.VideoPositionProvider
	opts       *options.Store
	logger     *logging.Logger

	path   string
	width  int
	height int

	loadTicking bool

	status string
	err    error
}

// NewModel assembles the timing stack for a document and audio provider.
func NewModel(path string, doc *subtitle.Document, provider media.Provider,
	keyframeTimes []int, opts *options.Store, logger *logging.Logger) *Model {

	sel := subtitle.NewSelectionController(doc)
	keyframes := timing.NewKeyframeProvider(opts)
	keyframes.SetKeyframes(keyframeTimes)
	videoPos := timing.NewVideoPositionProvider(opts)
	controller := timing.NewController(doc, sel, keyframes, videoPos, opts)

	display := wave.NewDisplay(controller, opts, func(ms int) {
		videoPos.SetPosition(ms)
	})
	display.SetProvider(provider)

	return &Model{
		doc:        doc,
		sel:        sel,
		controller: controller,
		display:    display,
		provider:   provider,
		videoPos:   videoPos,
		opts:       opts,
		logger:     logger,
		path:       path,
	}
}

func (m *Model) Init() tea.Cmd {
	if m.display.LoadTimerNeeded() {
		m.loadTicking = true
		return loadTick()
	}
	return nil
}

func loadTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return loadTickMsg{}
	})
}

func scrollTick() tea.Cmd {
	// matches the platform drag-scroll delay
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return scrollTickMsg{}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		model, cmd := m.handleKey(msg)
		return model, cmd

	case tea.MouseMsg:
		wasPending := m.display.ScrollTimerPending()
		m.display.OnMouseEvent(translateMouse(msg))
		if !wasPending && m.display.ScrollTimerPending() {
			cmds = append(cmds, scrollTick())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// one row of timeline, two rows of status
		m.display.SetClientSize(msg.Width, msg.Height-2)
		m.display.SetTimelineHeight(1)

	case loadTickMsg:
		m.display.OnLoadTimer()
		if m.display.LoadTimerNeeded() {
			cmds = append(cmds, loadTick())
		} else {
			m.loadTicking = false
		}

	case scrollTickMsg:
		m.display.OnScrollTimer()

	case tea.BlurMsg:
		// losing terminal focus loses pointer capture; abort any drag
		m.display.OnCaptureLost()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "+", "=":
		m.display.SetZoomLevel(m.display.ZoomLevel() + 1)
	case "-":
		m.display.SetZoomLevel(m.display.ZoomLevel() - 1)

	case "left":
		m.display.ScrollBy(-m.width / 4)
	case "right":
		m.display.ScrollBy(m.width / 4)
	case "home":
		m.display.ScrollPixelToLeft(0)
	case "end":
		m.display.ScrollPixelToLeft(m.display.PixelAudioWidth())

	case "n":
		m.controller.Next(timing.TimingUnit)
	case "p":
		m.controller.Prev()
	case "N":
		m.controller.Next(timing.TimingLine)

	case "i":
		m.controller.AddLeadIn()
	case "o":
		m.controller.AddLeadOut()

	case ",":
		m.controller.ModifyStart(-1)
	case ".":
		m.controller.ModifyStart(1)
	case "<":
		m.controller.ModifyLength(-1)
	case ">":
		m.controller.ModifyLength(1)

	case "enter":
		m.controller.Commit()
		m.status = "committed"

	case "u":
		if err := m.doc.Undo(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "undo"
		}
	case "r":
		if err := m.doc.Redo(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "redo"
		}

	case "s":
		m.controller.Commit()
		if err := m.doc.Write(m.path); err != nil {
			m.err = err
			m.status = fmt.Sprintf("save failed: %v", err)
			m.logger.Errorw("Failed to save subtitle file", "path", m.path, "error", err)
		} else {
			m.status = "saved " + m.path
			m.logger.Infow("Saved subtitle file", "path", m.path)
		}
	}

	return m, nil
}

// translateMouse converts a bubbletea mouse message into a display pointer
// event.
func translateMouse(msg tea.MouseMsg) wave.MouseEvent {
	ev := wave.MouseEvent{
		X:     msg.X,
		Y:     msg.Y,
		Shift: msg.Shift,
		Ctrl:  msg.Ctrl,
		Alt:   msg.Alt,
	}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Action = wave.MousePress
	case tea.MouseActionRelease:
		ev.Action = wave.MouseRelease
	default:
		ev.Action = wave.MouseMotion
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = wave.ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = wave.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = wave.ButtonRight
	}

	return ev
}

// Run starts the interactive program.
func Run(m *Model) error {
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run timing view: %w", err)
	}
	return nil
}
