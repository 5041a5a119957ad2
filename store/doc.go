// Package store holds the aggregated configuration document for the life of
// a process.
//
// A Store is created once at startup, usually with Open, which runs the
// loader over the base directory. From then on it is the only owner of the
// document: callers read and write through Get, Has, Set and Delete using
// key paths such as "server.ports[0].protocol".
//
// # Persistence
//
// The document is written to a cache file (mtx.cache.config by default) as
// JSON indented with four spaces. The file is only written, never read back:
// each start rebuilds the document from the fragments.
//
// Mutations schedule a write after a short quiet period. Further mutations
// while a write is pending do not schedule another one; the pending write
// serializes the document as it is when it runs. Flush writes immediately
// and Close cancels the timer and writes a final time.
//
// If the cache file cannot be created the Store stays usable in memory and
// Ready reports false; writes become no-ops.
package store
