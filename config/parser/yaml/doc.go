// Package yaml provides a YAML parser implementation for the config package.
//
// It backs settings files (mtxctl --settings) and accepts JSON input as
// well, since JSON is a subset of YAML. Keys use the store syntax and are
// converted to goccy/go-yaml PathString form:
//   - "" -> whole document
//   - "api.permissions" -> "$.api.permissions"
//   - "servers[0].host" or "servers.0.host" -> "$.servers[0].host"
package yaml
