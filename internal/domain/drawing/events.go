package drawing

import "time"

const (
	EventBlueprintCreated = "blueprint.created"
	EventPointAdded       = "blueprint.point_added"
)

// Event describes a committed change to a blueprint.
type Event struct {
	Type       string    `json:"type"`
	Author     string    `json:"author"`
	Name       string    `json:"name"`
	PointCount int       `json:"point_count"`
	Point      *Point    `json:"point,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
