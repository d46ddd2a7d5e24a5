// Package store handles SQLite export of snapshot data.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/rankview/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Scope names stored in the scope column.
const (
	ScopeWeeks = "weeks"
	ScopeYears = "years"
)

// Store wraps SQLite access for exported snapshots.
type Store struct {
	db *sql.DB
}

// ExportResult counts the rows written by one export.
type ExportResult struct {
	ID        int64
	Languages int
	Chars     int
}

// LanguageTotal is the per-language sum over every machine, editor and period of a scope.
type LanguageTotal struct {
	Language string
	Rank     float64
	Added    int64
	Deleted  int64
}

// CharTotal is the per-character sum over a scope.
type CharTotal struct {
	Char        string
	Added       int64
	AddedTyped  int64
	AddedPasted int64
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY,
			exported_at TEXT NOT NULL,
			version TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS language_stats (
			export_id INTEGER NOT NULL,
			scope TEXT NOT NULL,
			period TEXT NOT NULL,
			machine TEXT NOT NULL,
			machine_name TEXT NOT NULL,
			editor TEXT NOT NULL,
			language TEXT NOT NULL,
			rank REAL NOT NULL,
			added INTEGER NOT NULL,
			added_typed INTEGER NOT NULL,
			added_pasted INTEGER NOT NULL,
			num_pastes INTEGER NOT NULL,
			deleted INTEGER NOT NULL,
			deleted_typed INTEGER NOT NULL,
			deleted_cut INTEGER NOT NULL,
			num_cuts INTEGER NOT NULL,
			PRIMARY KEY (export_id, scope, period, machine, editor, language)
		);`,
		`CREATE TABLE IF NOT EXISTS char_stats (
			export_id INTEGER NOT NULL,
			scope TEXT NOT NULL,
			period TEXT NOT NULL,
			machine TEXT NOT NULL,
			editor TEXT NOT NULL,
			language TEXT NOT NULL,
			char TEXT NOT NULL,
			added INTEGER NOT NULL,
			added_typed INTEGER NOT NULL,
			added_pasted INTEGER NOT NULL,
			PRIMARY KEY (export_id, scope, period, machine, editor, language, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_language_stats_scope ON language_stats(export_id, scope);`,
		`CREATE INDEX IF NOT EXISTS idx_char_stats_scope ON char_stats(export_id, scope, language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Export flattens both period maps of the snapshot into rows tagged with a
// new export id. Everything is written in one transaction.
func (s *Store) Export(ctx context.Context, snap model.Snapshot, exportedAt time.Time) (result ExportResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to begin export: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO exports (exported_at, version) VALUES (?, ?)`,
		exportedAt.UTC().Format(time.RFC3339Nano), snap.Version)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to insert export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to read export id: %w", err)
	}
	result.ID = id

	langStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO language_stats (export_id, scope, period, machine, machine_name, editor, language,
			rank, added, added_typed, added_pasted, num_pastes, deleted, deleted_typed, deleted_cut, num_cuts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to prepare language insert: %w", err)
	}
	defer func() { _ = langStmt.Close() }()

	charStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO char_stats (export_id, scope, period, machine, editor, language, char, added, added_typed, added_pasted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to prepare char insert: %w", err)
	}
	defer func() { _ = charStmt.Close() }()

	scopes := []struct {
		name    string
		periods map[string]model.Period
	}{
		{ScopeWeeks, snap.PastFiveWeeks},
		{ScopeYears, snap.Years},
	}
	for _, scope := range scopes {
		for _, period := range sortedKeys(scope.periods) {
			machines := scope.periods[period].Machines
			for _, machineID := range sortedKeys(machines) {
				machine := machines[machineID]
				for _, editorID := range sortedKeys(machine.Editors) {
					langs := machine.Editors[editorID].Languages
					for _, lang := range sortedKeys(langs) {
						st := langs[lang]
						if _, err = langStmt.ExecContext(ctx, id, scope.name, period, machineID, machine.Name, editorID, lang,
							st.Rank, st.Added, st.AddedTyped, st.AddedPasted, st.NumPastes,
							st.Deleted, st.DeletedTyped, st.DeletedCut, st.NumCuts); err != nil {
							return ExportResult{}, fmt.Errorf("failed to insert language row: %w", err)
						}
						result.Languages++
						for _, ch := range sortedKeys(st.Chars) {
							cs := st.Chars[ch]
							if _, err = charStmt.ExecContext(ctx, id, scope.name, period, machineID, editorID, lang,
								ch, cs.Added, cs.AddedTyped, cs.AddedPasted); err != nil {
								return ExportResult{}, fmt.Errorf("failed to insert char row: %w", err)
							}
							result.Chars++
						}
					}
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return ExportResult{}, fmt.Errorf("failed to commit export: %w", err)
	}
	return result, nil
}

// LanguageTotals sums the latest export per language for one scope, ordered
// by descending added count and then by language.
func (s *Store) LanguageTotals(ctx context.Context, scope string) ([]LanguageTotal, error) {
	query := `WITH latest AS (SELECT MAX(id) AS id FROM exports)
	SELECT ls.language, SUM(ls.rank), SUM(ls.added), SUM(ls.deleted)
	FROM language_stats ls
	JOIN latest l ON l.id = ls.export_id
	WHERE ls.scope = ?
	GROUP BY ls.language
	ORDER BY SUM(ls.added) DESC, ls.language ASC`

	rows, err := s.db.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query language totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []LanguageTotal
	for rows.Next() {
		var total LanguageTotal
		if err := rows.Scan(&total.Language, &total.Rank, &total.Added, &total.Deleted); err != nil {
			return nil, fmt.Errorf("failed to scan language totals: %w", err)
		}
		result = append(result, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read language totals: %w", err)
	}
	return result, nil
}

// CharTotals sums the latest export per character for one scope, optionally
// limited to the given languages.
func (s *Store) CharTotals(ctx context.Context, scope string, languages ...string) ([]CharTotal, error) {
	clauses := []string{"cs.scope = ?"}
	args := []any{scope}
	if len(languages) > 0 {
		placeholders := make([]string, len(languages))
		for i, lang := range languages {
			placeholders[i] = "?"
			args = append(args, lang)
		}
		clauses = append(clauses, fmt.Sprintf("cs.language IN (%s)", strings.Join(placeholders, ",")))
	}
	query := fmt.Sprintf(`WITH latest AS (SELECT MAX(id) AS id FROM exports)
	SELECT cs.char, SUM(cs.added), SUM(cs.added_typed), SUM(cs.added_pasted)
	FROM char_stats cs
	JOIN latest l ON l.id = cs.export_id
	WHERE %s
	GROUP BY cs.char
	ORDER BY SUM(cs.added) DESC, cs.char ASC`, strings.Join(clauses, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query char totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []CharTotal
	for rows.Next() {
		var total CharTotal
		if err := rows.Scan(&total.Char, &total.Added, &total.AddedTyped, &total.AddedPasted); err != nil {
			return nil, fmt.Errorf("failed to scan char totals: %w", err)
		}
		result = append(result, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read char totals: %w", err)
	}
	return result, nil
}

// ExportCount returns the number of exports recorded in the database.
func (s *Store) ExportCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}
	return n, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
