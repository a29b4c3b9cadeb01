// Package model defines the shared data types passed between the crawler,
// the asset pipeline, and the reporting/persistence layers.
package model
