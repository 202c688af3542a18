// CLAUDE:SUMMARY Main registry orchestrator — list, consult, consult-many, version, instructions.
// Package registry serves named expert knowledge units from a directory.
//
// Each expert is one UTF-8 text file: the base name (minus extension) is
// its id, the content is served verbatim, and a short role summary is
// extracted from the content for listings. Every operation builds a fresh
// snapshot from the directory, so edits are visible on the next call and
// concurrent callers never share state. A deterministic fingerprint over
// the (id, content) set lets callers detect when the collection changed.
//
// Usage:
//
//	reg, err := registry.New(&registry.Config{ExpertsDir: "experts"}, logger)
//	entries, err := reg.List(ctx)
//	expert, err := reg.Consult(ctx, "python_specialist")
//	reg.RegisterMCP(mcpServer)
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/hazyhaar/expertry/roles"
)

// Registry is the expert registry orchestrator. It holds configuration
// only — no snapshot survives an operation, so a Registry is safe for
// concurrent use without locks.
type Registry struct {
	cfg    *Config
	logger *slog.Logger
}

// New creates a Registry with the given configuration.
func New(cfg *Config, logger *slog.Logger) (*Registry, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{cfg: cfg, logger: logger}, nil
}

// ListEntry is one row of a listing: an expert id and its display summary.
type ListEntry struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// List returns every expert's id and role summary in id order. Experts
// whose content yielded no role summary get a content-prefix placeholder.
func (r *Registry) List(ctx context.Context) ([]ListEntry, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return r.listEntries(snap), nil
}

func (r *Registry) listEntries(snap *Snapshot) []ListEntry {
	entries := make([]ListEntry, 0, snap.Len())
	for _, e := range snap.Experts() {
		summary := e.RoleSummary
		if summary == "" {
			summary = roles.Fallback(e.Content, r.cfg.FallbackLen)
		}
		entries = append(entries, ListEntry{
			ID:   e.ID,
			Role: roles.Display(summary, r.cfg.SummaryMaxLen),
		})
	}
	return entries
}

// Consult returns the full content of one expert by exact id match. A
// miss returns ErrExpertNotFound; when the snapshot holds a close name
// the error suggests it, but content of a different expert is never
// substituted.
func (r *Registry) Consult(ctx context.Context, id string) (*Expert, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return consult(snap, id)
}

func consult(snap *Snapshot, id string) (*Expert, error) {
	if e, ok := snap.Get(id); ok {
		return e, nil
	}
	if hint := suggest(id, snap.IDs()); hint != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrExpertNotFound, id, hint)
	}
	return nil, fmt.Errorf("%w: %q", ErrExpertNotFound, id)
}

// suggest returns the closest known id to the requested one, or "" when
// nothing reasonably matches.
func suggest(id string, ids []string) string {
	matches := fuzzy.Find(id, ids)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// ConsultResult is one slot of a ConsultMany response. Exactly one of
// Expert and Err is set.
type ConsultResult struct {
	ID     string
	Expert *Expert
	Err    error
}

// ConsultMany resolves each id independently against one snapshot and
// returns results in the requested order, duplicates included. A missing
// id yields a per-slot error; the batch itself never aborts, so partial
// results are always available.
func (r *Registry) ConsultMany(ctx context.Context, ids []string) ([]ConsultResult, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}

	results := make([]ConsultResult, 0, len(ids))
	for _, id := range ids {
		e, err := consult(snap, id)
		results = append(results, ConsultResult{ID: id, Expert: e, Err: err})
	}
	return results, nil
}

// VersionInfo is the current collection fingerprint and expert count.
type VersionInfo struct {
	Fingerprint string `json:"fingerprint"`
	Count       int    `json:"count"`
}

// Version returns the fingerprint and count of the current snapshot. Two
// calls on an unmodified directory return identical fingerprints; any
// add, remove, or content edit changes the fingerprint.
func (r *Registry) Version(ctx context.Context) (VersionInfo, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return VersionInfo{}, err
	}
	return VersionInfo{Fingerprint: snap.Fingerprint(), Count: snap.Len()}, nil
}
