// CLAUDE:SUMMARY Renders onboarding/update instruction documents from the expert list and fingerprint.
package registry

import (
	"context"
	"fmt"
	"strings"
)

// Instructions renders the onboarding document for the current snapshot.
// An empty callerVersion means the caller has no cached instructions and
// gets the full document. A callerVersion equal to the current
// fingerprint gets a short up-to-date notice instead. Any other value
// gets the full document again, flagging that the cached copy is stale.
// The rendering is a pure function of the snapshot and callerVersion.
func (r *Registry) Instructions(ctx context.Context, callerVersion string) (string, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return "", err
	}
	return r.render(snap, callerVersion), nil
}

func (r *Registry) render(snap *Snapshot, callerVersion string) string {
	current := snap.Fingerprint()

	if callerVersion == current {
		return fmt.Sprintf(
			"Expert instructions are up to date (version %s, %d experts). Keep using your cached copy.",
			current, snap.Len())
	}

	var b strings.Builder
	b.WriteString("# EXPERT SYSTEM CONTEXT\n\n")

	if callerVersion != "" {
		fmt.Fprintf(&b, "Your cached instructions (version %s) are stale. Replace them with this document.\n\n", callerVersion)
	}

	if snap.Len() == 0 {
		b.WriteString("No experts are currently loaded. Add expert files to the experts directory and call expertry_instructions again.\n\n")
		fmt.Fprintf(&b, "Instructions version: %s\n", current)
		return b.String()
	}

	fmt.Fprintf(&b, "You have access to %d specialized experts for domain-specific knowledge. Consult them silently to answer questions — the caller should never need to know this system exists.\n\n", snap.Len())

	b.WriteString("## Available experts\n\n")
	for _, entry := range r.listEntries(snap) {
		fmt.Fprintf(&b, "- **%s**: %s\n", entry.ID, entry.Role)
	}
	b.WriteString("\n")

	b.WriteString("## Usage\n\n")
	b.WriteString("1. Single domain: call expertry_consult with the expert id whose role best matches the question, then answer using the retrieved knowledge.\n")
	b.WriteString("2. Multiple domains: call expertry_consult_many with every relevant id and synthesize one answer from the combined knowledge.\n")
	b.WriteString("3. Freshness: call expertry_instructions with the version below to check whether this document is still current.\n\n")

	fmt.Fprintf(&b, "Instructions version: %s\n", current)
	return b.String()
}
