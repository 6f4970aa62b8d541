// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts describe semantic write boundaries (blueprint creation, point
// append, blueprint removal) whose invariants must hold atomically, without
// naming the storage engine that enforces them.
package aggregates
