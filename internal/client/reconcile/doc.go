// Package reconcile merges remote list responses into the cached
// collections.
//
// A response is applied either as a full snapshot, which replaces the target
// collection, or as a delta, which moves individual items between List and
// Archive by status. The engine does no I/O; it mutates a cache.Snapshot and
// reports what changed so the caller can persist it and re-render.
package reconcile
