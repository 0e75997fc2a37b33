package display

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/stepchef/internal/analysis"
	"github.com/hammamikhairi/stepchef/internal/conversation"
	"github.com/hammamikhairi/stepchef/internal/engine"
	"github.com/hammamikhairi/stepchef/internal/logger"
	"github.com/hammamikhairi/stepchef/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	eng := engine.New(analysis.NewMemorySource(log), storage.NewMemoryStore(log), log)
	session, err := eng.StartSession(ctx, "ramen")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return New(ctx, eng, conversation.NewKeywordParser(log), session.ID, log)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press feeds keys to the model and returns it with the last command.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestNewModelShowsFirstRecipe(t *testing.T) {
	m := newTestModel(t)

	if m.Active() != 0 {
		t.Fatalf("expected recipe 0, got %d", m.Active())
	}
	if m.Effective().Title != "Shoyu Ramen" {
		t.Fatalf("unexpected title %q", m.Effective().Title)
	}
	if m.Progress().Total != 6 || m.Progress().Completed != 0 {
		t.Fatalf("unexpected progress %+v", m.Progress())
	}
}

func TestCompletingRecipeShowsToast(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, "tab")
	if m.Effective().Title != "Miso Ramen" {
		t.Fatalf("expected Miso Ramen, got %q", m.Effective().Title)
	}

	m, cmd := press(t, m, "x", "j", "x", "j", "x")
	if m.Toast() != "" {
		t.Fatalf("toast before completion: %q", m.Toast())
	}
	if m.Progress().Completed != 3 {
		t.Fatalf("expected 3 checked, got %d", m.Progress().Completed)
	}

	m, cmd = press(t, m, "j", "x")
	if !strings.Contains(m.Toast(), "Miso Ramen") {
		t.Fatalf("expected toast naming the recipe, got %q", m.Toast())
	}
	if cmd == nil {
		t.Fatal("expected a command printing the celebration")
	}
	if m.Progress().Ratio != 1 {
		t.Fatalf("expected ratio 1, got %v", m.Progress().Ratio)
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Fatal("expected checked boxes in the view")
	}

	// The toast expires only for its own sequence number.
	next, _ := m.Update(toastExpiredMsg{seq: m.toastSeq - 1})
	m = next.(Model)
	if m.Toast() == "" {
		t.Fatal("stale expiry cleared the toast")
	}
	next, _ = m.Update(toastExpiredMsg{seq: m.toastSeq})
	m = next.(Model)
	if m.Toast() != "" {
		t.Fatalf("expected toast cleared, got %q", m.Toast())
	}
}

func TestUncheckDoesNotCelebrate(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "tab", "x", "j", "x", "j", "x", "j", "x")
	m.toast = ""

	m, _ = press(t, m, "x")
	if m.Toast() != "" {
		t.Fatalf("un-checking celebrated: %q", m.Toast())
	}
	if m.Progress().Completed != 3 {
		t.Fatalf("expected 3 checked, got %d", m.Progress().Completed)
	}
}

func TestVariationCycle(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, "v")
	if got := m.Effective(); got.Variation != "Vegan" || got.TotalSteps() != 5 {
		t.Fatalf("expected Vegan with 5 steps, got %q with %d", got.Variation, got.TotalSteps())
	}
	if m.Effective().Title != "Shoyu Ramen (Vegan Variation)" {
		t.Fatalf("unexpected title %q", m.Effective().Title)
	}

	m, _ = press(t, m, "v")
	if got := m.Effective(); got.Variation != "Spicy" || got.TotalSteps() != 6 {
		t.Fatalf("expected Spicy over base steps, got %q with %d", got.Variation, got.TotalSteps())
	}

	m, _ = press(t, m, "v")
	if got := m.Effective(); got.Variation != "" || got.Title != "Shoyu Ramen" {
		t.Fatalf("expected base recipe, got %+v", got)
	}

	m, _ = press(t, m, "v", "p")
	if m.Effective().Variation != "" {
		t.Fatalf("expected plain to clear, got %q", m.Effective().Variation)
	}
}

func TestCursorClampsToShorterVariation(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "j", "j", "j", "j", "j")
	if m.Cursor() != 5 {
		t.Fatalf("expected cursor 5, got %d", m.Cursor())
	}
	m, _ = press(t, m, "j")
	if m.Cursor() != 5 {
		t.Fatalf("cursor moved past the last step: %d", m.Cursor())
	}

	m, _ = press(t, m, "v")
	if m.Cursor() != 4 {
		t.Fatalf("expected cursor clamped to 4, got %d", m.Cursor())
	}
}

func TestTypedCommands(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, ":", "recipe 3", "enter")
	if m.Active() != 2 {
		t.Fatalf("expected recipe index 2, got %d", m.Active())
	}
	if m.typing {
		t.Fatal("input still open after enter")
	}

	m, _ = press(t, m, ":", "variation gluten-free", "enter")
	if m.Effective().Variation != "Gluten-Free" {
		t.Fatalf("expected Gluten-Free, got %q", m.Effective().Variation)
	}

	m, _ = press(t, m, ":", "variation nope", "enter")
	if !m.statusErr || !strings.Contains(m.Status(), `"nope"`) {
		t.Fatalf("expected variation error, got %q", m.Status())
	}
	if m.Effective().Variation != "Gluten-Free" {
		t.Fatalf("failed selection changed the variation to %q", m.Effective().Variation)
	}

	m, _ = press(t, m, ":", "toggle 9", "enter")
	if !m.statusErr || !strings.Contains(m.Status(), "No step 9") {
		t.Fatalf("expected out-of-range message, got %q", m.Status())
	}

	m, _ = press(t, m, ":", "recipe 7", "enter")
	if !m.statusErr || m.Active() != 2 {
		t.Fatalf("expected recipe error and no move, got %q at %d", m.Status(), m.Active())
	}

	m, _ = press(t, m, ":", "2", "enter", ":", "status", "enter")
	if !strings.Contains(m.Status(), "Tsukemen 1/4") {
		t.Fatalf("expected status summary, got %q", m.Status())
	}

	m, _ = press(t, m, ":", "gibberish", "esc")
	if m.typing || m.Status() == "" {
		t.Fatalf("escape should close input and keep status, typing=%v", m.typing)
	}

	m, _ = press(t, m, ":", "what is this", "enter")
	if !strings.Contains(m.Status(), "Unknown command") {
		t.Fatalf("expected unknown command, got %q", m.Status())
	}
}

func TestResetAndHelp(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "x", "j", "x")
	if m.Progress().Completed != 2 {
		t.Fatalf("expected 2 checked, got %d", m.Progress().Completed)
	}

	m, _ = press(t, m, "r")
	if m.Progress().Completed != 0 {
		t.Fatalf("expected reset, got %d", m.Progress().Completed)
	}

	m, _ = press(t, m, "?")
	if !m.help.ShowAll {
		t.Fatal("expected full help")
	}
}

func TestPrevRecipeWraps(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "shift+tab")
	if m.Active() != 2 {
		t.Fatalf("expected wrap to last recipe, got %d", m.Active())
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestViewListsIngredients(t *testing.T) {
	m := newTestModel(t)
	if strings.Contains(m.View(), "Ingredients") {
		t.Fatal("ingredients shown before toggling")
	}
	m, _ = press(t, m, "i")
	out := m.View()
	for _, want := range []string{"Ingredients", "Broth", "Shoyu Ramen", "recipe 1/3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBanner(t *testing.T) {
	rawFirst := strings.SplitN(bannerRaw, "\n", 2)[0]

	wide := RenderBanner(120, "cook along")
	first := strings.SplitN(wide, "\n", 2)[0]
	if !strings.HasSuffix(first, rawFirst) || len(first) <= len(rawFirst) {
		t.Fatalf("expected centred banner, got %q", first)
	}
	if !strings.Contains(wide, "cook along") {
		t.Fatal("subtitle missing")
	}

	narrow := RenderBanner(5, "")
	if got := strings.SplitN(narrow, "\n", 2)[0]; got != rawFirst {
		t.Fatalf("narrow terminal should not pad, got %q", got)
	}
}
