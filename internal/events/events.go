package events

// ProgressEvent is one incremental status notification emitted by an
// in-flight processing request. Percent is clamped to the 0-100 range.
type ProgressEvent struct {
	Percent int    `json:"progress"`
	Message string `json:"message"`
}

// NewProgressEvent creates a ProgressEvent, clamping percent into [0, 100].
func NewProgressEvent(percent int, message string) ProgressEvent {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return ProgressEvent{Percent: percent, Message: message}
}

// Broadcaster fans progress events out to all currently-connected observers.
// Implementations must tolerate having zero observers (Broadcast becomes a
// no-op) and must never block indefinitely on a slow or dead observer, so
// event producers never need to branch on whether anyone is listening.
type Broadcaster interface {
	Broadcast(event ProgressEvent)
}
