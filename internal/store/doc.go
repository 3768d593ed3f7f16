// Package store defines the persistence interfaces the core hands its
// data records to. Implementations live under internal/platform; the core
// never depends on a concrete storage backend.
package store
