// Package analysis provides analysis source implementations: an
// in-memory source with built-in examples, plus loaders for JSON
// analysis payloads and YAML recipe books.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

// Compile-time interface check.
var _ domain.AnalysisSource = (*MemorySource)(nil)

// MemorySource holds analyses in memory. Safe for concurrent use.
type MemorySource struct {
	mu       sync.RWMutex
	analyses map[string]*domain.Analysis
	log      *logger.Logger
}

// NewMemorySource creates a source preloaded with the built-in analyses.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := NewEmptySource(log)
	src.seed()
	return src
}

// NewEmptySource creates a source with no analyses.
func NewEmptySource(log *logger.Logger) *MemorySource {
	return &MemorySource{
		analyses: make(map[string]*domain.Analysis),
		log:      log,
	}
}

// List returns summaries of all analyses, sorted by food item.
func (s *MemorySource) List(ctx context.Context) ([]domain.AnalysisSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing analyses, count=%d", len(s.analyses))

	out := make([]domain.AnalysisSummary, 0, len(s.analyses))
	for _, a := range s.analyses {
		out = append(out, domain.AnalysisSummary{
			ID:          a.ID,
			FoodItem:    a.FoodItem,
			RecipeCount: len(a.Recipes),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FoodItem == out[j].FoodItem {
			return out[i].ID < out[j].ID
		}
		return out[i].FoodItem < out[j].FoodItem
	})
	return out, nil
}

// Get returns an analysis by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		s.log.Debug("analysis not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// Add stores an analysis. Analyses are replaced wholesale, never
// mutated, so sessions holding the previous value keep a consistent
// recipe list. Returns ErrAlreadyExists if the ID is taken and replace
// is false.
func (s *MemorySource) Add(ctx context.Context, a *domain.Analysis, replace bool) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("adding analysis: %w", domain.ErrInvalidAnalysis)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[a.ID]; ok && !replace {
		return fmt.Errorf("analysis %s: %w", a.ID, domain.ErrAlreadyExists)
	}
	if a.LoadedAt.IsZero() {
		a.LoadedAt = time.Now()
	}
	s.analyses[a.ID] = a
	s.log.Info("analysis added: %s (%q, %d recipes)", a.ID, a.FoodItem, len(a.Recipes))
	return nil
}

// LoadFile parses an analysis file and adds it to the source, replacing
// any analysis with the same ID.
func (s *MemorySource) LoadFile(ctx context.Context, path string) (*domain.Analysis, error) {
	a, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Add(ctx, a, true); err != nil {
		return nil, err
	}
	return a, nil
}
