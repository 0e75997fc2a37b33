package main

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/stepchef/internal/analysis"
	"github.com/hammamikhairi/stepchef/internal/chime"
	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/engine"
	"github.com/hammamikhairi/stepchef/internal/storage"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	source  *analysis.MemorySource
	store   *storage.MemoryStore
	history *storage.History // nil when disabled
	player  *chime.Player    // nil when disabled or unavailable
}

func newApp(ctx context.Context) (*app, error) {
	a := &app{
		source: analysis.NewMemorySource(log),
		store:  storage.NewMemoryStore(log),
	}
	if cfg.HistoryEnabled {
		h, err := storage.OpenHistory(ctx, cfg.HistoryPath, log)
		if err != nil {
			return nil, err
		}
		a.history = h
	}
	return a, nil
}

// enableChime opens the audio device. A missing device is logged and
// leaves the app silent.
func (a *app) enableChime() {
	if !cfg.ChimeEnabled {
		return
	}
	opts := []chime.Option{chime.WithVolume(cfg.ChimeVolume)}
	if cfg.ChimeFile != "" {
		pcm, err := chime.LoadWAV(cfg.ChimeFile)
		if err != nil {
			log.Warn("custom chime unavailable, using the built-in one: %v", err)
		} else {
			opts = append(opts, chime.WithSound(pcm))
		}
	}
	p, err := chime.NewPlayer(log, opts...)
	if err != nil {
		log.Warn("chime disabled: %v", err)
		return
	}
	a.player = p
}

func (a *app) close() {
	if a.player != nil {
		a.player.Close()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Warn("closing history: %v", err)
		}
	}
}

// load returns the analysis in path, or the built-in analysis id when
// path is empty.
func (a *app) load(ctx context.Context, path, id string) (*domain.Analysis, error) {
	if path != "" {
		return a.source.LoadFile(ctx, path)
	}
	return a.source.Get(ctx, id)
}

// engine wires an engine that celebrates through extra plus the history
// and chime when enabled.
func (a *app) engine(extra ...domain.Celebrator) *engine.Engine {
	celebrators := domain.Celebrators(extra)
	if a.history != nil {
		celebrators = append(celebrators, a.history)
	}
	if a.player != nil {
		celebrators = append(celebrators, a.player)
	}
	return engine.New(a.source, a.store, log,
		engine.WithCelebrator(celebrators),
		engine.WithVariationReset(cfg.ResetVariation),
	)
}

// selection is the recipe and variation requested on the command line.
type selection struct {
	recipe    int // 1-based, 0 keeps the first recipe
	variation string
}

func (s selection) apply(ctx context.Context, eng *engine.Engine, sessionID string) error {
	if s.recipe > 0 {
		if err := eng.SelectRecipe(ctx, sessionID, s.recipe-1); err != nil {
			return err
		}
	}
	if s.variation != "" {
		if _, err := eng.SelectVariation(ctx, sessionID, s.variation); err != nil {
			return err
		}
	}
	return nil
}

func fileArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func describe(a *domain.Analysis) string {
	return fmt.Sprintf("%s (%d recipes)", a.FoodItem, len(a.Recipes))
}
