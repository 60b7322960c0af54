// SPDX-License-Identifier: MPL-2.0

// Package watch turns filesystem activity into batches of changes and drives
// a rerun loop from them.
//
// A Source delivers Batches over a channel that closes when its context is
// cancelled. FSSource is the fsnotify implementation: it accumulates events
// and flushes them once per interval, so a burst of writes becomes a single
// Batch. Supervisor consumes a Source and calls a rerun function once per
// Batch, never concurrently; changes that arrive while a rerun is in flight
// are coalesced into the next Batch.
package watch
