// Package snapshot provides the concrete state type used by scenario files,
// the CLI and the verdict store: a JSON-shaped, float-free value tree.
//
// The ltl package treats states as opaque. snapshot.Object is the state
// type for everything outside Go test code: it resolves dotted paths for
// UnchangedPaths/ChangedPaths, serializes to RFC 8785 canonical JSON and
// hashes deterministically so that stored verdict traces are reproducible.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - Object keys are ordered by UTF-16 code units when serialized
//   - Strings are NFC normalized at the serialization boundary
package snapshot
