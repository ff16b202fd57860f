// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rotcrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for crack history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cracks (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			cipher_key INTEGER NOT NULL,
			score REAL NOT NULL,
			ambiguous INTEGER NOT NULL,
			letters INTEGER NOT NULL,
			source TEXT NOT NULL,
			ciphertext_head TEXT NOT NULL,
			plaintext_head TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS crack_letters (
			crack_id INTEGER NOT NULL,
			letter TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (crack_id, letter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cracks_created_at ON cracks(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_crack_letters_letter ON crack_letters(letter);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCrack stores a completed crack run and its letter tallies.
func (s *Store) InsertCrack(ctx context.Context, rec model.CrackRecord, letters []model.LetterCount) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	ambiguous := 0
	if rec.Ambiguous {
		ambiguous = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO cracks (created_at, lang, cipher_key, score, ambiguous, letters, source, ciphertext_head, plaintext_head)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.Lang,
		rec.Key,
		rec.Score,
		ambiguous,
		rec.Letters,
		rec.Source,
		rec.CiphertextHead,
		rec.PlaintextHead,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(letters) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO crack_letters (crack_id, letter, count)
			 VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, lc := range letters {
			if _, err := stmt.ExecContext(ctx, id, lc.Letter, lc.Count); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListCracks returns stored crack runs filtered by history config, oldest
// first.
func (s *Store) ListCracks(ctx context.Context, cfg model.HistoryConfig) ([]model.CrackRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, created_at, lang, cipher_key, score, ambiguous, letters, source, ciphertext_head, plaintext_head
		FROM cracks
		WHERE %s
		ORDER BY created_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.CrackRecord
	for rows.Next() {
		var rec model.CrackRecord
		var createdAt string
		var ambiguous int
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Lang, &rec.Key, &rec.Score, &ambiguous, &rec.Letters, &rec.Source, &rec.CiphertextHead, &rec.PlaintextHead); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = parsed
		rec.Ambiguous = ambiguous != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// LetterTotals sums letter tallies across the given cracks.
func (s *Store) LetterTotals(ctx context.Context, crackIDs []int64) ([]model.LetterAggregate, error) {
	if len(crackIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(crackIDs))
	args := make([]any, len(crackIDs))
	for i, id := range crackIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT letter, SUM(count) AS count
		FROM crack_letters
		WHERE crack_id IN (%s)
		GROUP BY letter
		ORDER BY letter ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LetterAggregate
	for rows.Next() {
		var agg model.LetterAggregate
		if err := rows.Scan(&agg.Letter, &agg.Count); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
