// Package config holds the configuration values for a snapshot run and
// the logic to locate well-known directories (output, cache, database)
// following the XDG Base Directory Specification.
package config
