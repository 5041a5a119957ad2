// Package document provides path-addressed access to JSON-shaped trees.
//
// A document is the value produced by decoding JSON into an `any`: internal
// nodes are map[string]any (mappings) and []any (sequences), leaves are
// strings, float64, bool, nil or any other opaque value.
//
// # Key Paths
//
// Keys use dots for nesting and brackets for indices. Both forms are
// equivalent:
//
//	"server.ports[0].protocol"  -> [server ports 0 protocol]
//	"server.ports.0.protocol"   -> [server ports 0 protocol]
//
// A segment is only a string. Whether "0" addresses mapping key "0" or
// sequence index 0 is decided when the walk reaches the container, so the
// same path may mean different things for different documents.
//
// # Writes
//
// Set creates missing intermediate containers and overwrites intermediate
// values that have the wrong shape, including scalars and sequences that
// would need a key. Delete never creates anything.
//
// # Merge
//
// Merge unions nested mappings and replaces everything else, so repeated
// calls encode precedence: later sources win on scalars and sequences.
package document
