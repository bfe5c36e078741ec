// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package history keeps a log of the tracks that were actually listened to.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Tracks at or below this length are never recorded.
const MinDuration = 30 * time.Second

// MaxDelay caps how long a long track must play before it counts.
const MaxDelay = 4 * time.Minute

// PlayThreshold returns how long a track of the given length must keep
// playing before it is recorded, and false if it is too short to count.
// See https://www.last.fm/api/scrobbling
func PlayThreshold(duration time.Duration) (time.Duration, bool) {
	if duration <= MinDuration {
		return 0, false
	}
	delay := duration / 2
	if delay > MaxDelay {
		delay = MaxDelay
	}
	return delay, true
}

type Entry struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration int
	PlayedAt time.Time
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS plays (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	path      TEXT    NOT NULL,
	title     TEXT    NOT NULL DEFAULT '',
	artist    TEXT    NOT NULL DEFAULT '',
	album     TEXT    NOT NULL DEFAULT '',
	duration  INTEGER NOT NULL DEFAULT 0,
	played_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS plays_path ON plays(path);
`

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: empty database path")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(e Entry) error {
	if e.PlayedAt.IsZero() {
		e.PlayedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO plays (path, title, artist, album, duration, played_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Path, e.Title, e.Artist, e.Album, e.Duration, e.PlayedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", e.Path, err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT path, title, artist, album, duration, played_at FROM plays ORDER BY played_at DESC, id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		var playedAt int64
		if err := rows.Scan(&e.Path, &e.Title, &e.Artist, &e.Album, &e.Duration, &playedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.PlayedAt = time.UnixMilli(playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns how often path was recorded.
func (s *Store) Count(path string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM plays WHERE path = ?`, path).Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}
