package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/stepchef/internal/domain"
)

// LoadFile reads an analysis from disk. The format is chosen by file
// extension (.json, .yaml, .yml); other extensions are sniffed.
func LoadFile(path string) (*domain.Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var a *domain.Analysis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		a, err = ParseJSON(data)
	case ".yaml", ".yml":
		a, err = ParseYAML(data)
	default:
		a, err = parseSniffed(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if a.ID == "" {
		a.ID = slug(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	return a, nil
}

func parseSniffed(data []byte) (*domain.Analysis, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, domain.ErrUnknownFormat
	}
	switch trimmed[0] {
	case '{', '[':
		return ParseJSON(data)
	}
	a, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, err)
	}
	return a, nil
}

// validate checks the invariants every analysis must satisfy before a
// session can be started over it.
func validate(a *domain.Analysis) error {
	if len(a.Recipes) == 0 {
		return domain.ErrNoRecipes
	}
	for i, r := range a.Recipes {
		if strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("%w: recipe %d has no title", domain.ErrInvalidAnalysis, i)
		}
		seen := make(map[string]bool, len(r.Variations))
		for _, v := range r.Variations {
			if v.Name == "" {
				return fmt.Errorf("%w: recipe %q has an unnamed variation", domain.ErrInvalidAnalysis, r.Title)
			}
			if seen[v.Name] {
				return fmt.Errorf("%w: recipe %q repeats variation %q", domain.ErrInvalidAnalysis, r.Title, v.Name)
			}
			seen[v.Name] = true
		}
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns a name into an ID; empty names get a random ID.
func slug(s string) string {
	out := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if out == "" {
		return uuid.NewString()
	}
	return out
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// parseNumber reads the leading number of values like "12g" or
// "15 minutes". Returns 0 when there is none.
func parseNumber(s string) float64 {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return f
}
