// Package jsonfile provides file-backed implementations for the data
// storage interfaces defined in the internal/store package. It persists
// records as a single human-readable JSON document and replaces it with an
// atomic write-and-rename scheme, so that a crash mid-write never corrupts
// previously stored data.
package jsonfile
