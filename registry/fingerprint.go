// CLAUDE:SUMMARY Deterministic version fingerprint over the sorted (id, content) set of a snapshot.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLen is the display length of a fingerprint: 8 bytes of the
// SHA-256 sum, 16 hex characters.
const fingerprintLen = 8

// Fingerprint computes the version fingerprint of the snapshot: SHA-256
// over the (id, content) pairs in id order, each field NUL-terminated.
// NUL cannot appear in a file base name or in text that passed the UTF-8
// scan filter, so the encoding is unambiguous. The result depends only on
// the (id, content) set — never on enumeration order, host, or process.
func (s *Snapshot) Fingerprint() string {
	h := sha256.New()
	for _, e := range s.experts {
		h.Write([]byte(e.ID))
		h.Write([]byte{0})
		h.Write([]byte(e.Content))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:fingerprintLen])
}
