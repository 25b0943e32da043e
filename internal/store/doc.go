// Package store provides SQLite-backed storage for spec run results.
//
// The store records:
//   - Runs: one row per suite run, identified by a UUIDv7
//   - Case results: one row per case of a run, keyed by (run_id, path)
//
// # Ordering
//
// All ordering uses logical seq columns, never timestamps. Runs are numbered
// in creation order; case results in execution order. Queries break ties
// with COLLATE BINARY so results are identical across platforms.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING, so recording the same case result twice
// keeps the first row.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
