// Package store manages the on-disk layout of a snapshot: the output
// directory with one HTML file per page and an assets/ subdirectory, the
// cross-run asset cache, and the content-addressed asset downloads that
// fill both.
package store
