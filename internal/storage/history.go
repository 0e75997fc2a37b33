package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

// Compile-time interface check.
var _ domain.Celebrator = (*History)(nil)

// HistoryEntry is one recorded celebration.
type HistoryEntry struct {
	ID          int64
	SessionID   string
	FoodItem    string
	RecipeIndex int
	RecipeName  string
	Crossing    int
	CompletedAt time.Time
}

// RecipeTally counts completions of one recipe across all sessions.
type RecipeTally struct {
	RecipeName string
	Count      int
	Last       time.Time
}

// History is a SQLite-backed log of finished recipes. It receives
// celebrations like any other celebrator and keeps them across runs.
type History struct {
	db  *sql.DB
	log *logger.Logger
}

var historySchema = []string{
	`CREATE TABLE IF NOT EXISTS celebrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		food_item TEXT NOT NULL DEFAULT '',
		recipe_index INTEGER NOT NULL,
		recipe_name TEXT NOT NULL,
		crossing INTEGER NOT NULL DEFAULT 1,
		completed_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_celebrations_recipe ON celebrations(recipe_name)`,
	`CREATE INDEX IF NOT EXISTS idx_celebrations_completed ON celebrations(completed_at)`,
}

// OpenHistory opens (creating if needed) the history database at path.
// Use ":memory:" for a throwaway database.
func OpenHistory(ctx context.Context, path string, log *logger.Logger) (*History, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and ":memory:"
	// databases are per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	for _, q := range historySchema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate history database: %w", err)
		}
	}

	log.Debug("history database ready at %s", path)
	return &History{db: db, log: log}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// Celebrate records a celebration.
func (h *History) Celebrate(ctx context.Context, c domain.Celebration) error {
	_, err := h.Record(ctx, c)
	return err
}

// Record inserts a celebration and returns its row ID.
func (h *History) Record(ctx context.Context, c domain.Celebration) (int64, error) {
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := h.db.ExecContext(ctx,
		`INSERT INTO celebrations (session_id, food_item, recipe_index, recipe_name, crossing, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.SessionID, c.FoodItem, c.RecipeIndex, c.RecipeName, c.Crossing, at.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record celebration: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read celebration id: %w", err)
	}
	h.log.Debug("recorded celebration %d for %q", id, c.RecipeName)
	return id, nil
}

// Recent returns the latest celebrations, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, session_id, food_item, recipe_index, recipe_name, crossing, completed_at
		 FROM celebrations
		 ORDER BY completed_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query celebrations: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.FoodItem, &e.RecipeIndex, &e.RecipeName, &e.Crossing, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan celebration: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate celebrations: %w", err)
	}
	return out, nil
}

// CountFor returns how many times a recipe has been finished.
func (h *History) CountFor(ctx context.Context, recipeName string) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM celebrations WHERE recipe_name = ?`, recipeName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count celebrations: %w", err)
	}
	return n, nil
}

// Tally groups celebrations by recipe, most finished first.
func (h *History) Tally(ctx context.Context) ([]RecipeTally, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT recipe_name, COUNT(*), MAX(completed_at)
		 FROM celebrations
		 GROUP BY recipe_name
		 ORDER BY COUNT(*) DESC, recipe_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to tally celebrations: %w", err)
	}
	defer rows.Close()

	var out []RecipeTally
	for rows.Next() {
		var t RecipeTally
		var last string
		if err := rows.Scan(&t.RecipeName, &t.Count, &last); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		t.Last = parseSQLiteTime(last)
		out = append(out, t)
	}
	return out, rows.Err()
}

// parseSQLiteTime handles the formats go-sqlite3 writes for time.Time.
// Aggregates like MAX() come back as text rather than DATETIME.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
