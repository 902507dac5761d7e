// Package store defines the persistence interfaces for the application's
// aggregates. Implementations live under internal/platform; services depend
// only on these interfaces, plus RunInTransaction for atomic
// read-modify-write sequences on single aggregate records.
package store
