// Package store provides SQLite-backed durable storage for Entrifi.
//
// The database is a small key-value medium: one row per logical key, the
// value a JSON document. Submissions live under the single key
// "submissions" as a JSON array in insertion order.
//
// # Persistence Model
//
// Every Submissions operation re-reads the whole collection from the
// database, modifies it in memory and writes it back in one transaction.
// Nothing is cached between calls, so edits made to the database file by
// another tool between calls are picked up.
//
// Read-modify-write of the whole collection is a scaling limit: each append
// costs O(n) in the collection size. The collection is capped (see
// WithMaxRecords) to keep that bounded.
//
// Append and Clear hold a mutex for the full read-modify-write. Without it,
// two concurrent appends could both read the same base collection and one
// record would be lost.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
