// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store persists the history of interactive sessions.
package store

import "time"

// Entry is one evaluated line of a session.
type Entry struct {
	ID      int64
	Session string
	Input   string
	Result  string // Display form of the value, empty on failure
	Err     string // Error message, empty on success
	Ts      time.Time
}

// Failed reports whether the line ended in an error.
func (e Entry) Failed() bool {
	return e.Err != ""
}

// Store is the interface for session history persistence.
type Store interface {
	// Record appends an entry and returns its id.
	Record(e Entry) (int64, error)
	// History returns up to limit entries, newest first. limit <= 0 means all.
	History(limit int) ([]Entry, error)
	// Session returns the entries of one session in the order they were recorded.
	Session(id string) ([]Entry, error)
	// Close releases resources.
	Close() error
}

// MetadataStore is implemented by stores that keep key/value metadata.
type MetadataStore interface {
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}
