// Package store persists content sets, their members, generated manifests
// and cached classifier orders.
//
// SQLite (modernc.org/sqlite) is the default backend; PostgreSQL (lib/pq)
// is available for shared deployments. Queries are written once with "?"
// placeholders and rebound for PostgreSQL. Every multi-row write runs in a
// single transaction so readers never see a half-updated set.
//
// The schema is created on first open and guarded by a schema_version row.
// A version mismatch fails Open with ErrSchemaMismatch; there are no
// in-place migrations.
package store
