// Package config binds sections of configuration data to typed Go values.
//
// The package is built around four small interfaces:
//   - DataFetcher: returns raw bytes (a file, a live store snapshot, ...)
//   - Parser: decodes bytes, optionally descending to a key first
//   - Defaulter: fills in missing values after decoding
//   - Validator: rejects invalid settings
//
// # Keys
//
// Keys follow the store's path syntax: "database.replicas[0].host" and
// "database.replicas.0.host" address the same value. An empty key selects
// the whole document.
//
// # Example
//
//	type Database struct {
//	    Host string `json:"host"`
//	    Port int    `json:"port"`
//	}
//
//	provider := config.Provider(&Database{}, "database")
//	db, err := provider(jsonparser.NewParser(), st)
//
// Here st is a *store.Store, which implements DataFetcher by serializing its
// current document.
package config
