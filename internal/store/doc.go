// Package store keeps a SQLite history of scenario runs.
//
// The store is an append-only log with two tables:
//   - runs: one row per scenario run, with its tallies and seed
//   - outcomes: one row per case of a run
//
// # Ordering
//
// Runs are ordered by a logical seq column assigned inside the write
// transaction, never by timestamps. Outcomes are ordered by case index.
//
// # Concurrency
//
// Writers take an advisory file lock on <path>.lock so separate processes
// appending to the same history serialise their seq assignment. Reads do
// not lock; WAL mode lets them proceed during a write.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
