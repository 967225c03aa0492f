// Package store provides SQLite-backed durable storage for verdict logs.
//
// A check run is recorded as:
//   - Runs: one row per scenario check, with the final verdict once finished
//   - Steps: the monitor's partial verdict after each observed state
//   - Snapshots: content-addressed canonical JSON of every observed state
//
// # Ordering
//
// Runs are ordered by seq, a logical counter assigned on insert, and steps
// by their index within the run. Wall time never orders anything, so two
// replays of the same history list identically.
//
// # Snapshots
//
// Snapshot rows are keyed by the domain-separated hash from
// snapshot.Hash. Identical states observed by different runs share a row.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
