// Package display provides the interactive recipe screen using Bubble Tea.
//
// [Model] renders the active recipe's effective view as a checklist with
// a progress bar underneath. Keys and typed commands are turned into
// engine calls; finishing a recipe shows a toast and prints the
// celebration above the screen.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/stepchef/internal/conversation"
	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/engine"
	"github.com/hammamikhairi/stepchef/internal/logger"
	"github.com/hammamikhairi/stepchef/internal/variation"
)

// ToastDuration is how long a celebration toast stays on screen.
const ToastDuration = 4 * time.Second

// Model is the Bubble Tea model of one cooking session.
type Model struct {
	ctx       context.Context
	eng       *engine.Engine
	parser    domain.CommandParser
	log       *logger.Logger
	sessionID string

	keys  keyMap
	help  help.Model
	bar   progressbar.Model
	input textinput.Model

	// Snapshot of the session, refreshed after every action.
	foodItem   string
	titles     []string
	active     int
	variations []string
	view       domain.EffectiveView
	progress   engine.Progress

	cursor          int
	typing          bool
	showIngredients bool
	toast           string
	toastSeq        int
	status          string
	statusErr       bool
	width           int
}

// toastExpiredMsg clears the toast it was scheduled for.
type toastExpiredMsg struct{ seq int }

// New creates the model for an already started session.
func New(ctx context.Context, eng *engine.Engine, parser domain.CommandParser, sessionID string, log *logger.Logger) Model {
	ti := textinput.New()
	// Plain-text prompt so the textinput width math stays correct.
	ti.Prompt = "chef> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 200
	ti.Width = 60

	m := Model{
		ctx:       ctx,
		eng:       eng,
		parser:    parser,
		log:       log,
		sessionID: sessionID,
		keys:      defaultKeys(),
		help:      help.New(),
		bar:       progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(40)),
		input:     ti,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("stepchef: " + m.view.Title)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = clamp(msg.Width-16, 10, 60)
		const promptLen = 6
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.typing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		line := m.input.Value()
		m.typing = false
		m.input.Reset()
		m.input.Blur()
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		cmd, err := m.parser.Parse(m.ctx, line)
		if err != nil {
			m.fail(fmt.Sprintf("Could not read %q: %v", line, err))
			return m, nil
		}
		return m.apply(*cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.apply(domain.Command{Type: domain.CommandQuit})
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.view.TotalSteps()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m.apply(domain.Command{Type: domain.CommandToggle, Index: m.cursor})
	case key.Matches(msg, m.keys.NextRecipe):
		return m.apply(domain.Command{Type: domain.CommandNextRecipe})
	case key.Matches(msg, m.keys.PrevRecipe):
		return m.apply(domain.Command{Type: domain.CommandPrevRecipe})
	case key.Matches(msg, m.keys.Variation):
		return m.apply(domain.Command{Type: domain.CommandSelectVariation, Payload: m.nextVariation()})
	case key.Matches(msg, m.keys.Plain):
		return m.apply(domain.Command{Type: domain.CommandClearVariation})
	case key.Matches(msg, m.keys.Reset):
		return m.apply(domain.Command{Type: domain.CommandReset})
	case key.Matches(msg, m.keys.Ingredients):
		m.showIngredients = !m.showIngredients
	case key.Matches(msg, m.keys.Help):
		return m.apply(domain.Command{Type: domain.CommandHelp})
	case key.Matches(msg, m.keys.Command):
		m.typing = true
		return m, m.input.Focus()
	}
	return m, nil
}

// apply runs one command against the engine and refreshes the snapshot.
func (m Model) apply(c domain.Command) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false
	var cmd tea.Cmd

	switch c.Type {
	case domain.CommandQuit:
		return m, tea.Quit

	case domain.CommandToggle:
		t, err := m.eng.ToggleStep(m.ctx, m.sessionID, c.Index)
		switch {
		case err != nil:
			m.fail(err.Error())
		case !t.Applied:
			m.fail(fmt.Sprintf("No step %d here (1-%d).", c.Index+1, m.view.TotalSteps()))
		default:
			m.cursor = c.Index
			if t.Celebration != nil {
				cmd = m.celebrate(*t.Celebration)
			}
		}

	case domain.CommandSelectRecipe:
		if err := m.eng.SelectRecipe(m.ctx, m.sessionID, c.Index); err != nil {
			if errors.Is(err, domain.ErrRecipeOutOfRange) {
				m.fail(fmt.Sprintf("No recipe %d (1-%d).", c.Index+1, len(m.titles)))
			} else {
				m.fail(err.Error())
			}
		} else {
			m.cursor = 0
		}

	case domain.CommandNextRecipe, domain.CommandPrevRecipe:
		delta := 1
		if c.Type == domain.CommandPrevRecipe {
			delta = -1
		}
		if _, err := m.eng.CycleRecipe(m.ctx, m.sessionID, delta); err != nil {
			m.fail(err.Error())
		} else {
			m.cursor = 0
		}

	case domain.CommandSelectVariation:
		if c.Payload == "" {
			if err := m.eng.ClearVariation(m.ctx, m.sessionID); err != nil {
				m.fail(err.Error())
			}
			break
		}
		name, err := m.eng.SelectVariation(m.ctx, m.sessionID, c.Payload)
		switch {
		case errors.Is(err, domain.ErrVariationNotFound):
			m.fail(m.noVariation(c.Payload))
		case err != nil:
			m.fail(err.Error())
		default:
			m.status = "Showing the " + name + " variation."
		}

	case domain.CommandClearVariation:
		if err := m.eng.ClearVariation(m.ctx, m.sessionID); err != nil {
			m.fail(err.Error())
		} else {
			m.status = "Showing the base recipe."
		}

	case domain.CommandReset:
		if err := m.eng.ResetRecipe(m.ctx, m.sessionID); err != nil {
			m.fail(err.Error())
		} else {
			m.status = "All steps unchecked."
		}

	case domain.CommandStatus:
		all, err := m.eng.AllProgress(m.ctx, m.sessionID)
		if err != nil {
			m.fail(err.Error())
			break
		}
		m.status = summarize(m.titles, all)

	case domain.CommandList:
		cmd = tea.Println(m.listing())

	case domain.CommandHelp:
		m.help.ShowAll = !m.help.ShowAll

	default:
		m.fail(fmt.Sprintf("Unknown command %q. Type help for the list.", c.Payload))
	}

	m.refresh()
	return m, cmd
}

// celebrate shows the toast for c and prints the message above the screen.
func (m *Model) celebrate(c domain.Celebration) tea.Cmd {
	msg := conversation.CelebrationMessage(c)
	m.toast = msg
	m.toastSeq++
	seq := m.toastSeq
	m.log.Info("celebration shown: %s (crossing %d)", c.RecipeName, c.Crossing)
	return tea.Batch(
		tea.Println(msg),
		tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} }),
	)
}

func (m *Model) fail(text string) {
	m.status = text
	m.statusErr = true
}

// refresh reloads the session snapshot from the engine.
func (m *Model) refresh() {
	session, err := m.eng.Status(m.ctx, m.sessionID)
	if err != nil {
		m.log.Error("refreshing session %s: %v", m.sessionID, err)
		m.fail(err.Error())
		return
	}

	m.foodItem, m.titles = "", nil
	if session.Analysis != nil {
		m.foodItem = session.Analysis.FoodItem
		for _, r := range session.Analysis.Recipes {
			m.titles = append(m.titles, r.Title)
		}
	}
	m.active = session.ActiveRecipe
	m.variations = nil
	if r, ok := session.Recipe(); ok {
		m.variations = variation.Names(r)
	}

	if m.view, err = m.eng.View(m.ctx, m.sessionID); err != nil {
		m.fail(err.Error())
	}
	if m.progress, err = m.eng.Progress(m.ctx, m.sessionID); err != nil {
		m.fail(err.Error())
	}
	m.cursor = clamp(m.cursor, 0, m.view.TotalSteps()-1)
}

// nextVariation returns the variation after the applied one, or "" to go
// back to the base recipe after the last.
func (m Model) nextVariation() string {
	if len(m.variations) == 0 {
		return ""
	}
	for i, name := range m.variations {
		if name == m.view.Variation {
			if i+1 < len(m.variations) {
				return m.variations[i+1]
			}
			return ""
		}
	}
	return m.variations[0]
}

func (m Model) noVariation(name string) string {
	if len(m.variations) == 0 {
		return fmt.Sprintf("%s has no variations.", m.view.Title)
	}
	return fmt.Sprintf("No %q variation. Try: %s.", name, strings.Join(m.variations, ", "))
}

// Snapshot accessors, used by the cook command and tests.

// Active returns the index of the recipe on screen.
func (m Model) Active() int { return m.active }

// Effective returns the effective view on screen.
func (m Model) Effective() domain.EffectiveView { return m.view }

// Progress returns the progress of the recipe on screen.
func (m Model) Progress() engine.Progress { return m.progress }

// Toast returns the celebration message currently shown, if any.
func (m Model) Toast() string { return m.toast }

// Status returns the last status line.
func (m Model) Status() string { return m.status }

// Cursor returns the highlighted step index.
func (m Model) Cursor() int { return m.cursor }

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

var _ tea.Model = Model{}

// Run starts the Bubble Tea event loop. Blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
