/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ratingstore persists fetched player ratings between runs so a
// fresh process does not have to ask QLRanks for every player again.
package ratingstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mikeb26/uqlt/elo"
)

//go:embed schema.sql
var schema string

// timestampFormat sorts lexically in time order.
const timestampFormat = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the snapshot database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ratings database: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the ratings saved within maxAge, keyed by lower-cased player
// name. maxAge <= 0 returns every row. Players saved with no ratings at all
// are left out so a new process asks QLRanks about them again.
func (s *Store) Load(ctx context.Context,
	maxAge time.Duration) (map[string]elo.Ratings, error) {

	cutoff := ""
	if maxAge > 0 {
		cutoff = formatTimestamp(time.Now().Add(-maxAge))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, duel, tdm, ca, ffa, ctf FROM ratings
		WHERE updated_at >= ?
			AND (duel != 0 OR tdm != 0 OR ca != 0 OR ffa != 0 OR ctf != 0)
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]elo.Ratings)
	for rows.Next() {
		var name string
		var r elo.Ratings
		if err := rows.Scan(&name, &r.Duel, &r.TDM, &r.CA, &r.FFA, &r.CTF); err != nil {
			return nil, fmt.Errorf("scanning rating row: %w", err)
		}
		out[name] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ratings: %w", err)
	}
	return out, nil
}

// Save upserts ratings in a single transaction.
func (s *Store) Save(ctx context.Context, ratings map[string]elo.Ratings) error {
	if len(ratings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ratings (name, duel, tdm, ca, ffa, ctf, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			duel = excluded.duel,
			tdm = excluded.tdm,
			ca = excluded.ca,
			ffa = excluded.ffa,
			ctf = excluded.ctf,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := formatTimestamp(time.Now())
	for name, r := range ratings {
		if _, err := stmt.ExecContext(ctx, elo.Key(name), r.Duel, r.TDM, r.CA,
			r.FFA, r.CTF, now); err != nil {
			return fmt.Errorf("saving rating for %v: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ratings: %w", err)
	}
	return nil
}
