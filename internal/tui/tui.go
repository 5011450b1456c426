// Package tui renders a snake game in the terminal and turns key presses
// into direction requests.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/snake/internal/runner"
	"github.com/lox/snake/internal/snake"
)

// Controller is the part of the runner the UI talks to.
type Controller interface {
	RequestDirection(d snake.Direction)
	Snapshot() runner.Frame
}

// FrameMsg delivers a new frame from the tick loop.
type FrameMsg runner.Frame

// Model is the Bubble Tea model for a single game.
type Model struct {
	controller Controller
	logger     *log.Logger
	title      string

	frame    runner.Frame
	keys     keyMap
	help     help.Model
	quitting bool
}

// NewModel creates a model showing the controller's current frame.
func NewModel(controller Controller, logger *log.Logger, title string) *Model {
	return &Model{
		controller: controller,
		logger:     logger.WithPrefix("tui"),
		title:      title,
		frame:      controller.Snapshot(),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.frame = runner.Frame(msg)
		if m.frame.Finished {
			m.logger.Info("Game finished", "cause", m.frame.Cause, "length", m.frame.Length)
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.request(snake.Up)
		case key.Matches(msg, m.keys.Down):
			m.request(snake.Down)
		case key.Matches(msg, m.keys.Left):
			m.request(snake.Left)
		case key.Matches(msg, m.keys.Right):
			m.request(snake.Right)
		}
	}
	return m, nil
}

func (m *Model) request(d snake.Direction) {
	if m.frame.Finished {
		return
	}
	m.logger.Debug("Direction requested", "direction", d)
	m.controller.RequestDirection(d)
}

// Frame returns the frame currently on screen.
func (m *Model) Frame() runner.Frame {
	return m.frame
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(BoardStyle.Render(RenderBoard(m.frame)))
	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(fmt.Sprintf("Length: %d  Steps: %d", m.frame.Length, m.frame.Step)))
	b.WriteString("\n")
	if m.frame.Finished {
		b.WriteString(gameOverLine(m.frame))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func gameOverLine(f runner.Frame) string {
	switch f.Cause {
	case snake.CauseBoardFull:
		return WonStyle.Render("Board full! Nothing left to eat. Press q to quit.")
	case snake.CauseSelf:
		return GameOverStyle.Render("Game over: ran into yourself. Press q to quit.")
	default:
		return GameOverStyle.Render("Game over: hit the wall. Press q to quit.")
	}
}

// RenderBoard draws the cells of f without a border, one line per row.
func RenderBoard(f runner.Frame) string {
	occupied := make(map[snake.Position]bool, len(f.Body))
	for _, p := range f.Body {
		occupied[p] = true
	}
	head := f.Head()

	rows := make([]string, f.Height)
	for y := 0; y < f.Height; y++ {
		var row strings.Builder
		for x := 0; x < f.Width; x++ {
			p := snake.Position{X: x, Y: y}
			switch {
			case len(f.Body) > 0 && p == head:
				row.WriteString(HeadStyle.Render(headGlyph))
			case occupied[p]:
				row.WriteString(BodyStyle.Render(bodyGlyph))
			case p == f.Food && !f.Finished:
				row.WriteString(FoodStyle.Render(foodGlyph))
			default:
				row.WriteString(EmptyStyle.Render(emptyGlyph))
			}
		}
		rows[y] = row.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Run plays r interactively until the game is quit or ctx is cancelled. The
// game keeps its final frame on screen after it ends.
func Run(ctx context.Context, r *runner.Runner, logger *log.Logger, title string, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(r, logger, title)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)

	r.OnFrame(func(f runner.Frame) {
		p.Send(FrameMsg(f))
	})

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- r.Run(ctx)
	}()

	_, err := p.Run()
	cancel()
	if runErr := <-loopErr; runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("tick loop: %w", runErr)
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
