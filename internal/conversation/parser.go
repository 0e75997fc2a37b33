// Package conversation provides command parsing and text notification
// implementations.
package conversation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords and simple
// patterns. Step and recipe numbers are typed 1-based and returned
// 0-based.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	indexed  []indexedRule
	named    []namedRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// indexedRule captures a 1-based number in group 1.
type indexedRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// namedRule captures free text in group 1.
type namedRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(next|n|\])$`), domain.CommandNextRecipe},
		{regexp.MustCompile(`(?i)^(prev|previous|p|\[)$`), domain.CommandPrevRecipe},
		{regexp.MustCompile(`(?i)^(plain|base|original|no variation|clear)$`), domain.CommandClearVariation},
		{regexp.MustCompile(`(?i)^(reset|start over|uncheck all)$`), domain.CommandReset},
		{regexp.MustCompile(`(?i)^(status|progress|where|info)$`), domain.CommandStatus},
		{regexp.MustCompile(`(?i)^(list|recipes|variations|ls)$`), domain.CommandList},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit},
	}
	p.indexed = []indexedRule{
		{regexp.MustCompile(`(?i)^(?:toggle|check|uncheck|done|tick|x|step)\s+#?(\d+)$`), domain.CommandToggle},
		{regexp.MustCompile(`(?i)^(?:recipe|r|select|pick)\s+#?(\d+)$`), domain.CommandSelectRecipe},
	}
	p.named = []namedRule{
		{regexp.MustCompile(`(?i)^(?:variation|var|v|make it|go)\s+(.+)$`), domain.CommandSelectVariation},
	}
	return p
}

// Parse converts user input into a command.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number toggles that step.
	if n, ok := parseIndex(trimmed); ok {
		return &domain.Command{Type: domain.CommandToggle, Index: n}, nil
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched command: %s", rule.command)
			return &domain.Command{Type: rule.command}, nil
		}
	}

	for _, rule := range p.indexed {
		if m := rule.regex.FindStringSubmatch(trimmed); m != nil {
			if n, ok := parseIndex(m[1]); ok {
				return &domain.Command{Type: rule.command, Index: n}, nil
			}
		}
	}

	for _, rule := range p.named {
		if m := rule.regex.FindStringSubmatch(trimmed); m != nil {
			return &domain.Command{Type: rule.command, Payload: strings.TrimSpace(m[1])}, nil
		}
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}

// parseIndex turns a 1-based number into a 0-based index.
func parseIndex(s string) (int, bool) {
	if len(s) > 4 || !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
