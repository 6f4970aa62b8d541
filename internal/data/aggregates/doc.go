// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose table-level repos from internal/data/repos, own the
// transaction boundary of every write, and translate storage failures into
// domain/aggregates error codes through MapError.
package aggregates
