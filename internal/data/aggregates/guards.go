package aggregates

import (
	"fmt"
	"strings"

	"github.com/yungbote/blueprints-backend/internal/domain/drawing"
)

// RequireBlueprintKey trims and validates the (author, name) pair that
// addresses a blueprint.
func RequireBlueprintKey(author, name string) (string, string, error) {
	author, name, ok := drawing.NormalizeKey(author, name)
	if !ok {
		return author, name, ValidationError("author and name are required")
	}
	return author, name, nil
}

// RequireAuthor trims and validates an author filter.
func RequireAuthor(author string) (string, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return "", ValidationError("author is required")
	}
	return author, nil
}

// RequireFound converts a missing row into a typed not-found error.
func RequireFound(found bool, format string, args ...any) error {
	if found {
		return nil
	}
	return NotFoundError(fmt.Sprintf(format, args...))
}

// RequireRowsAffected treats a write that touched fewer rows than expected as
// an invariant violation so the surrounding transaction rolls back.
func RequireRowsAffected(got, want int64, what string) error {
	if got == want {
		return nil
	}
	return InvariantError(fmt.Sprintf("%s: expected %d rows affected, got %d", strings.TrimSpace(what), want, got))
}
