// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores operate through store.DBTX so the same code
// serves both plain connections and in-flight transactions; WithTx
// produces a transaction-bound copy.
//
// Ingestion jobs and practice sessions are stored as single aggregate
// rows with their sub-tasks/questions serialized to JSONB, matching the
// whole-record read-modify-write discipline of the store interfaces.
package postgres
