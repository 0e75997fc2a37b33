package domain

import "context"

// AnalysisSource provides analysis results. Implementations can be
// in-memory, file-backed, or fetched from the analysis service.
type AnalysisSource interface {
	List(ctx context.Context) ([]AnalysisSummary, error)
	Get(ctx context.Context, id string) (*Analysis, error)
}

// SessionStore persists sessions.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Session, error)
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}

// Celebrator receives completion crossings. The engine only signals that
// a crossing happened; how it is presented (text, sound, confetti) is up
// to the implementation.
type Celebrator interface {
	Celebrate(ctx context.Context, c Celebration) error
}

// CelebratorFunc adapts a function to the Celebrator interface.
type CelebratorFunc func(ctx context.Context, c Celebration) error

// Celebrate calls f.
func (f CelebratorFunc) Celebrate(ctx context.Context, c Celebration) error {
	return f(ctx, c)
}

// Celebrators fans a celebration out to several receivers. Every receiver
// is called; the first error is returned.
type Celebrators []Celebrator

// Celebrate delivers c to each receiver in order.
func (cs Celebrators) Celebrate(ctx context.Context, c Celebration) error {
	var first error
	for _, r := range cs {
		if r == nil {
			continue
		}
		if err := r.Celebrate(ctx, c); err != nil && first == nil {
			first = err
		}
	}
	return first
}
