// Package events provides the progress event type and the broadcaster that
// fans events out to connected observers.
//
// Progress events are ephemeral: they are produced by in-flight processing
// requests, delivered to whoever is connected at emission time, and never
// persisted. The Hub decouples request processing from observer connections
// so that a slow or dead observer can never stall an in-flight request.
package events
