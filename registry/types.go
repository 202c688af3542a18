// CLAUDE:SUMMARY Expert, Warning, and Snapshot types for the expert registry.
package registry

// Expert is one named unit of free-text domain knowledge.
type Expert struct {
	// ID is the file base name without extension, unique per snapshot.
	ID string `json:"id"`

	// FormatHint is the file extension without the dot. Advisory only:
	// role extraction never depends on it.
	FormatHint string `json:"format_hint,omitempty"`

	// Content is the full file text, unmodified.
	Content string `json:"content"`

	// RoleSummary is the extracted capability summary. Empty means no
	// extraction rule matched. Recomputed on every scan, never persisted.
	RoleSummary string `json:"role_summary,omitempty"`

	// Source is the file path, for diagnostics only.
	Source string `json:"source"`
}

// Warning records a non-fatal problem found during a scan: an unreadable
// entry, binary content, or an id collision.
type Warning struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Snapshot is the full expert set as read at one point in time, sorted
// by id. It is immutable once built and never shared across operations.
type Snapshot struct {
	experts  []Expert
	index    map[string]int
	warnings []Warning
}

func newSnapshot(experts []Expert, warnings []Warning) *Snapshot {
	idx := make(map[string]int, len(experts))
	for i, e := range experts {
		idx[e.ID] = i
	}
	return &Snapshot{experts: experts, index: idx, warnings: warnings}
}

// Get returns the expert with the given id, exact match only.
func (s *Snapshot) Get(id string) (*Expert, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.experts[i], true
}

// Experts returns the experts in id order.
func (s *Snapshot) Experts() []Expert {
	return s.experts
}

// IDs returns all expert ids in sorted order.
func (s *Snapshot) IDs() []string {
	ids := make([]string, len(s.experts))
	for i, e := range s.experts {
		ids[i] = e.ID
	}
	return ids
}

// Warnings returns the non-fatal problems recorded during the scan.
func (s *Snapshot) Warnings() []Warning {
	return s.warnings
}

// Len returns the number of experts in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.experts)
}
