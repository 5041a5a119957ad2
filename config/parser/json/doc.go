// Package json provides a JSON parser implementation for the config package.
//
// Config fragments and the persisted store are plain JSON, so this is the
// parser the loader and the store use. Keys are resolved with the document
// package, which means "a.b[0]" and "a.b.0" are equivalent and the meaning
// of a numeric segment depends on the container it meets.
//
// Usage:
//
//	parser := json.NewParser()
//	var db Database
//	err := parser.Parse(data, &db, "database.primary")
package json
