// Package loader builds the initial store document from config fragments.
//
// Fragments are files ending in ".config" that live under one of the target
// directories of a base directory (config, configs, database,
// databaseconfig), at any depth. Directories named node_modules, .git, dist
// or temp are never entered, and nothing outside the target directories is
// visited.
//
// # Precedence
//
// Discovered paths are sorted with root-locale collation and merged in that
// order, so later paths win:
//
//	configs/01-base.config   <- merged first
//	configs/99-prod.config   <- wins on conflicting scalars and arrays
//
// Nested objects are unioned across fragments; arrays are replaced whole.
//
// # Failures
//
// Load never returns an error. A malformed fragment is logged at error
// level and skipped; other problems are only reported when debug is on.
package loader
