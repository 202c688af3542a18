// CLAUDE:SUMMARY Sentinel errors for the expert registry: missing directory, unknown expert.
package registry

import "errors"

// ErrDirectoryNotFound is returned when the experts directory does not
// exist or cannot be read. It is the only error that aborts an operation.
var ErrDirectoryNotFound = errors.New("registry: experts directory not found")

// ErrExpertNotFound is returned when a consulted expert id is absent from
// the current snapshot.
var ErrExpertNotFound = errors.New("registry: expert not found")
