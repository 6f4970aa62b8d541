package domain

import (
	"github.com/yungbote/blueprints-backend/internal/domain/drawing"
)

type Blueprint = drawing.Blueprint
type BlueprintPoint = drawing.BlueprintPoint
type Point = drawing.Point

var (
	ErrBlueprintNotFound      = drawing.ErrBlueprintNotFound
	ErrBlueprintExists        = drawing.ErrBlueprintExists
	ErrInvalidBlueprint       = drawing.ErrInvalidBlueprint
	ErrPersistenceUnavailable = drawing.ErrPersistenceUnavailable
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&drawing.Blueprint{},
		&drawing.BlueprintPoint{},
	}
}

type Event = drawing.Event

const (
	EventBlueprintCreated = drawing.EventBlueprintCreated
	EventPointAdded       = drawing.EventPointAdded
)
