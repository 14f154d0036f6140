// Package scorelog persists score evaluations so runs can be compared later.
package scorelog

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/vrppd/core/constraint"
)

// Record captures one score evaluation of a solution.
type Record struct {
	ID         string             `json:"id"`
	SessionID  string             `json:"session_id"`
	Timestamp  time.Time          `json:"timestamp"`
	Solution   string             `json:"solution"`
	Score      string             `json:"score"`
	Hard       int64              `json:"hard"`
	Soft       int64              `json:"soft"`
	Distance   int64              `json:"distance"`
	Unassigned int                `json:"unassigned"`
	Matches    []constraint.Match `json:"matches,omitempty"`
}

// Feasible reports whether no hard constraint was broken.
func (r Record) Feasible() bool { return r.Hard >= 0 }

// Query filters records. Zero fields match everything.
type Query struct {
	Start        time.Time
	End          time.Time
	SessionID    string
	Solution     string
	FeasibleOnly bool
}

func (q Query) match(r Record) bool {
	switch {
	case !q.Start.IsZero() && r.Timestamp.Before(q.Start):
		return false
	case !q.End.IsZero() && r.Timestamp.After(q.End):
		return false
	case q.SessionID != "" && r.SessionID != q.SessionID:
		return false
	case q.Solution != "" && r.Solution != q.Solution:
		return false
	case q.FeasibleOnly && !r.Feasible():
		return false
	}
	return true
}

// Store persists Records and supports querying them back in append order.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects a backend. An empty backend disables persistence.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Open builds the store described by c.
func Open(c Config) (Store, error) {
	switch c.Backend {
	case "", "none":
		return NopStore{}, nil
	case "jsonl":
		if c.Path == "" {
			return nil, fmt.Errorf("score log: jsonl backend needs a path")
		}
		if c.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		}
		return NewJSONLStore(c.Path)
	case "sqlite":
		if c.Path == "" {
			return nil, fmt.Errorf("score log: sqlite backend needs a path")
		}
		return NewSQLiteStore(c.Path)
	}
	return nil, fmt.Errorf("score log: unknown backend %q", c.Backend)
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
