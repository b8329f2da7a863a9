// Package artifact manages temporary file lifetimes for file-based
// processing requests: staging uploaded bytes under a scratch directory
// with collision-free names and releasing them once the owning request
// finishes. The scratch directory is expected to be empty between requests
// in steady state; orphaned files can appear only after an abnormal
// process termination and are tolerated on startup.
package artifact
