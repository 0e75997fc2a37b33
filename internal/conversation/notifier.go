package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

// Compile-time interface check.
var _ domain.Celebrator = (*CLINotifier)(nil)

var (
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bae6fd"))
	urgentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fca5a5"))
	cheerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bbf7d0"))
)

// PrintFunc is a function used to print formatted output.
// The format carries no trailing newline; each call prints one line.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications and celebrations as styled text.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a text notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s", noticeStyle.Render(message))
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s", urgentStyle.Render(message))
	return nil
}

// Celebrate prints a completion message for a finished recipe.
func (n *CLINotifier) Celebrate(ctx context.Context, c domain.Celebration) error {
	msg := CelebrationMessage(c)
	n.log.Debug("celebrate: %s", msg)
	n.printFn("%s", cheerStyle.Render(msg))
	return nil
}

// CelebrationMessage is the text shown when a recipe is finished.
func CelebrationMessage(c domain.Celebration) string {
	switch {
	case c.Crossing <= 1:
		return fmt.Sprintf("🎉 Congratulations! You've completed %s!", c.RecipeName)
	case c.Crossing == 2:
		return fmt.Sprintf("🎉 %s completed again!", c.RecipeName)
	default:
		return fmt.Sprintf("🎉 %s completed again (%d times this session)!", c.RecipeName, c.Crossing)
	}
}
