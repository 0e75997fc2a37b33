package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/engine"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(foodStyle.Render(fmt.Sprintf("%s · recipe %d/%d", m.foodItem, m.active+1, len(m.titles))))
	b.WriteByte('\n')
	b.WriteString(headerStyle.Render(m.view.Title))
	b.WriteByte('\n')
	if len(m.variations) > 0 {
		b.WriteString(secondaryStyle.Render("variations: "))
		for i, name := range m.variations {
			if i > 0 {
				b.WriteString(secondaryStyle.Render(", "))
			}
			if name == m.view.Variation {
				b.WriteString(variationStyle.Render(name))
			} else {
				b.WriteString(secondaryStyle.Render(name))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if m.showIngredients {
		b.WriteString(renderIngredients(m.view.Ingredients))
		b.WriteByte('\n')
	}

	b.WriteString(sectionStyle.Render("Steps"))
	b.WriteByte('\n')
	if m.view.TotalSteps() == 0 {
		b.WriteString(secondaryStyle.Render("  (no instructions)"))
		b.WriteByte('\n')
	}
	for i, text := range m.view.Instructions {
		b.WriteString(m.renderStep(i, text))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(m.bar.ViewAs(m.progress.Ratio))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %d/%d", m.progress.Completed, m.progress.Total)))
	b.WriteByte('\n')

	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast))
		b.WriteByte('\n')
	}
	if m.status != "" {
		if m.statusErr {
			b.WriteString(urgentStyle.Render(m.status))
		} else {
			b.WriteString(secondaryStyle.Render(m.status))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.typing {
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderStep(i int, text string) string {
	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	style := primaryStyle
	if m.done(i) {
		box = "[x]"
		style = doneStepStyle
	}
	return fmt.Sprintf("%s%s %s", pointer, box, style.Render(fmt.Sprintf("%d. %s", i+1, text)))
}

// done reports whether step i is checked. The engine is the source of
// truth; an error reads as unchecked.
func (m Model) done(i int) bool {
	ok, err := m.eng.StepComplete(m.ctx, m.sessionID, i)
	return err == nil && ok
}

// renderIngredients branches on the list kind.
func renderIngredients(list domain.IngredientList) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Ingredients"))
	b.WriteByte('\n')

	switch list.Kind {
	case domain.IngredientsGrouped:
		for _, g := range list.Groups {
			b.WriteString(primaryStyle.Render("  " + g.Name))
			b.WriteByte('\n')
			for _, item := range g.Items {
				b.WriteString(secondaryStyle.Render("    • " + item))
				b.WriteByte('\n')
			}
		}
	default:
		for _, item := range list.Flat {
			b.WriteString(secondaryStyle.Render("  • " + item))
			b.WriteByte('\n')
		}
	}
	if list.Len() == 0 {
		b.WriteString(secondaryStyle.Render("  (none listed)"))
		b.WriteByte('\n')
	}
	return b.String()
}

// listing renders every recipe with its variations for the scrollback.
func (m Model) listing() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s recipes:", m.foodItem)
	for i, t := range m.titles {
		marker := " "
		if i == m.active {
			marker = "*"
		}
		fmt.Fprintf(&b, "\n %s %d. %s", marker, i+1, t)
		if i == m.active && len(m.variations) > 0 {
			fmt.Fprintf(&b, " (variations: %s)", strings.Join(m.variations, ", "))
		}
	}
	return b.String()
}

// summarize renders one line of progress for every recipe.
func summarize(titles []string, all []engine.Progress) string {
	parts := make([]string, 0, len(all))
	for _, p := range all {
		title := fmt.Sprintf("#%d", p.RecipeIndex+1)
		if p.RecipeIndex < len(titles) {
			title = titles[p.RecipeIndex]
		}
		part := fmt.Sprintf("%s %d/%d", title, p.Completed, p.Total)
		if p.State == domain.StateComplete {
			part += " ✓"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " · ")
}
