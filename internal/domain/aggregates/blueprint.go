package aggregates

import (
	"context"

	"github.com/yungbote/blueprints-backend/internal/domain/drawing"
)

var BlueprintAggregateContract = Contract{
	Name:             "Drawing.BlueprintAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyTableRepoQueries,
	Notes:            "Owns blueprint + point rows. Uniqueness of (author, name) and point order are enforced by storage constraints, not read-then-write checks.",
}

// BlueprintAggregate is the persistence gateway for blueprints.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeUnavailable, CodeInternal.
type BlueprintAggregate interface {
	Aggregate

	// Save inserts a new blueprint and its points in one transaction.
	// A stored blueprint with the same (author, name) yields CodeConflict.
	Save(ctx context.Context, in SaveBlueprintInput) (SaveBlueprintResult, error)

	// FindByAuthorAndName returns (nil, nil) when no blueprint matches.
	FindByAuthorAndName(ctx context.Context, author, name string) (*drawing.Blueprint, error)

	// FindByAuthor returns every blueprint by author; empty when none.
	FindByAuthor(ctx context.Context, author string) ([]*drawing.Blueprint, error)

	// FindAll returns every stored blueprint.
	FindAll(ctx context.Context) ([]*drawing.Blueprint, error)

	// AppendPoint atomically appends a point after the current last point.
	// An unknown blueprint yields CodeNotFound and nothing is written.
	AppendPoint(ctx context.Context, in AppendPointInput) (AppendPointResult, error)

	// Remove deletes a blueprint and its points. Missing blueprints yield CodeNotFound.
	Remove(ctx context.Context, author, name string) error
}

type SaveBlueprintInput struct {
	Author string
	Name   string
	Points []drawing.Point
}

type SaveBlueprintResult struct {
	Blueprint *drawing.Blueprint
}

type AppendPointInput struct {
	Author string
	Name   string
	X      int
	Y      int
}

type AppendPointResult struct {
	Blueprint *drawing.Blueprint
	Ordinal   int
}
