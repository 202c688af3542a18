// CLAUDE:SUMMARY Directory scanner that builds a fresh expert Snapshot per operation.
package registry

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/expertry/roles"
)

// Snapshot reads the experts directory and builds a fresh snapshot. Every
// registry operation calls this, so edits to the directory are visible on
// the next call without any invalidation machinery. Per-entry problems
// become warnings on the snapshot; only a missing or unreadable directory
// is fatal.
func (r *Registry) Snapshot() (*Snapshot, error) {
	entries, err := os.ReadDir(r.cfg.ExpertsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryNotFound, r.cfg.ExpertsDir, err)
	}

	byID := make(map[string]Expert)
	var warnings []Warning

	warn := func(path, reason string) {
		warnings = append(warnings, Warning{Path: path, Reason: reason})
		r.logger.Warn("expert skipped", "path", path, "reason", reason)
	}

	// os.ReadDir sorts by filename, so collision resolution is
	// deterministic: the lexically later file wins.
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(r.cfg.ExpertsDir, name)

		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			warn(path, fmt.Sprintf("stat: %v", err))
			continue
		}
		if info.Size() > r.cfg.MaxFileSize {
			warn(path, fmt.Sprintf("file too large: %d bytes (max %d)", info.Size(), r.cfg.MaxFileSize))
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			warn(path, fmt.Sprintf("read: %v", err))
			continue
		}
		if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
			warn(path, "not UTF-8 text")
			continue
		}

		ext := filepath.Ext(name)
		id := strings.TrimSuffix(name, ext)

		if prev, exists := byID[id]; exists {
			warn(prev.Source, fmt.Sprintf("id collision: %q also provided by %s, later entry wins", id, name))
		}

		content := string(data)
		summary, _ := roles.Extract(content)

		byID[id] = Expert{
			ID:          id,
			FormatHint:  strings.TrimPrefix(ext, "."),
			Content:     content,
			RoleSummary: summary,
			Source:      path,
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	experts := make([]Expert, 0, len(ids))
	for _, id := range ids {
		experts = append(experts, byID[id])
	}

	r.logger.Debug("snapshot built", "dir", r.cfg.ExpertsDir, "experts", len(experts), "warnings", len(warnings))
	return newSnapshot(experts, warnings), nil
}
