// Package database provides SQLite-based storage for snapshot run
// history: which workspaces were mirrored, when, with what outcome.
//
// Design decision: We use a single database file shared by all
// workspaces rather than one file per workspace. This keeps history
// queries across workspaces simple and makes backup a single-file copy.
package database
