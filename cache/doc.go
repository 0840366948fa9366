// Package cache provides the read-through cache, key derivation and
// write-path invalidation used by the resource services.
//
// # Overview
//
// The package exports three building blocks and the Backend contract they
// share:
//
//   - Key derivation: IndexKey, ShowKey, IndexPattern and ShowPattern
//   - ReadThrough: get-or-populate around a ComputeFn, with a TTL
//   - Invalidator: pattern deletion after writes
//
// # Key Layout
//
// Keys are slash separated and every component sits at a fixed position:
//
//	jobs/index/filter-user_id=42/updated-1718000000000000/page-1/per_page-10
//	jobs/show/8d1c.../updated-1718000000000000
//
// The namespace is a validated lowercase identifier. Filter names, values
// and entity ids are percent-encoded by EscapeSegment, so no caller supplied
// value can introduce a separator or a wildcard. The updated component is a
// freshness fingerprint, usually the latest modification time of the
// queried rows in microseconds, or 0 for an empty set. Any write that
// touches the set moves it, which changes the key even if an invalidation
// is lost.
//
// # Invalidation
//
// Writes call Invalidate after commit:
//
//	inv.Invalidate(ctx, ns, id, false) // update, delete
//	inv.Invalidate(ctx, ns, id, true)  // create, index keys only
//
// which deletes "{ns}/index/*" and, unless skipped, "{ns}/show/{id}/*".
//
// # Failure Handling
//
// Cache failures are never surfaced. ReadThrough falls back to computing
// the payload without storing it when the backend errors, and Invalidator
// logs failed deletions. Entries left behind expire with their TTL.
//
// # Backends
//
// NewBackend builds one of three implementations from Config:
//
//   - memory: a sturdyc client, scanned for pattern deletes
//   - redis: SCAN MATCH + DEL, degrading to uncached reads while redis is down
//   - memcache: point operations plus an in-process registry of written keys
package cache
