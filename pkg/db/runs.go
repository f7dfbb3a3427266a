package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one stored ranking run.
type Run struct {
	RunID           int64
	CreatedAt       time.Time
	Contract        string
	CollectionTotal int
	TokenCount      int
	TraitPairs      int
	TieBreak        string
	CacheHits       int
	NetworkFetches  int
	Refetched       int
}

// TokenScore is a token's result within a run.
type TokenScore struct {
	TokenID int
	Name    string
	Rank    int
	Score   float64
}

// TraitStat is one frequency table row within a run.
type TraitStat struct {
	Name       string
	Value      string
	Count      int
	Score      float64
	Percentage float64
}

// RecordRun stores a run with its token scores and trait stats in one transaction.
// Returns the new run ID.
func (db *DB) RecordRun(run Run, scores []TokenScore, traits []TraitStat) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // No-op after commit

	result, err := tx.Exec(`
		INSERT INTO runs (contract, collection_total, token_count, trait_pairs, tie_break, cache_hits, network_fetches, refetched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Contract, run.CollectionTotal, run.TokenCount, run.TraitPairs, run.TieBreak, run.CacheHits, run.NetworkFetches, run.Refetched)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	tokenStmt, err := tx.Prepare(`INSERT INTO token_scores (run_id, token_id, name, rank, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer tokenStmt.Close()
	for _, s := range scores {
		if _, err := tokenStmt.Exec(runID, s.TokenID, s.Name, s.Rank, s.Score); err != nil {
			return 0, fmt.Errorf("failed to insert token %d: %w", s.TokenID, err)
		}
	}

	traitStmt, err := tx.Prepare(`INSERT INTO trait_stats (run_id, name, value, count, score, percentage) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare trait insert: %w", err)
	}
	defer traitStmt.Close()
	for _, ts := range traits {
		if _, err := traitStmt.Exec(runID, ts.Name, ts.Value, ts.Count, ts.Score, ts.Percentage); err != nil {
			return 0, fmt.Errorf("failed to insert trait %s - %s: %w", ts.Name, ts.Value, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, created_at, contract, collection_total, token_count, trait_pairs, tie_break, cache_hits, network_fetches, refetched
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by its ID
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, created_at, contract, collection_total, token_count, trait_pairs, tie_break, cache_hits, network_fetches, refetched
		FROM runs
		WHERE run_id = ?
	`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	return r, err
}

// TopTokens returns the best ranked tokens of a run.
func (db *DB) TopTokens(runID int64, limit int) ([]TokenScore, error) {
	rows, err := db.Query(`
		SELECT token_id, COALESCE(name, ''), rank, score
		FROM token_scores
		WHERE run_id = ?
		ORDER BY rank
		LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top tokens: %w", err)
	}
	defer rows.Close()

	var out []TokenScore
	for rows.Next() {
		var s TokenScore
		if err := rows.Scan(&s.TokenID, &s.Name, &s.Rank, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan token score: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetTraitStats returns the frequency table stored for a run, rarest first.
func (db *DB) GetTraitStats(runID int64) ([]TraitStat, error) {
	rows, err := db.Query(`
		SELECT name, value, count, score, percentage
		FROM trait_stats
		WHERE run_id = ?
		ORDER BY count, name, value
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trait stats: %w", err)
	}
	defer rows.Close()

	var out []TraitStat
	for rows.Next() {
		var ts TraitStat
		if err := rows.Scan(&ts.Name, &ts.Value, &ts.Count, &ts.Score, &ts.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan trait stat: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	err := s.Scan(
		&r.RunID,
		&r.CreatedAt,
		&r.Contract,
		&r.CollectionTotal,
		&r.TokenCount,
		&r.TraitPairs,
		&r.TieBreak,
		&r.CacheHits,
		&r.NetworkFetches,
		&r.Refetched,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return &r, nil
}
