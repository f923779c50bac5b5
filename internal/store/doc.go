// Package store defines the interfaces and error taxonomy for data
// persistence. These interfaces keep the application's core logic independent
// of the underlying database engine; the SQLite implementations live in
// internal/platform/sqlite.
package store
