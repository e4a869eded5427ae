package ports

// Event stream names pushed over the realtime boundary.
const (
	StreamDisasters = "disasters"
	StreamResources = "resources"
	StreamSocial    = "social"
)

// Event names per stream.
const (
	EventDisasterUpdated    = "disaster_updated"
	EventResourcesUpdated   = "resources_updated"
	EventSocialMediaUpdated = "social_media_updated"
)

// Change types carried in event payloads.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Event is a fire-and-forget CRUD notification. Delivery is at-most-once and
// best-effort; no acknowledgment, no replay.
type Event struct {
	Stream  string `json:"stream"`
	Name    string `json:"event"`
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// EventPublisher fans events out to realtime subscribers. Publish must never
// block request handling.
type EventPublisher interface {
	Publish(event Event)
}
