package aggregates

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/blueprints-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	for _, in := range []error{
		ConflictError("stale"),
		gorm.ErrDuplicatedKey,
		fmt.Errorf("create: %w", gorm.ErrDuplicatedKey),
		&pgconn.PgError{Code: "23505"},
		errors.New("UNIQUE constraint failed: blueprint.author, blueprint.name"),
	} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			t.Fatalf("%v: expected conflict code, got %q", in, domainagg.CodeOf(err))
		}
	}
}

func TestMapError_NotFound(t *testing.T) {
	for _, in := range []error{gorm.ErrRecordNotFound, NotFoundError("no blueprint")} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("%v: expected not_found code, got %q", in, domainagg.CodeOf(err))
		}
	}
}

func TestMapError_PreconditionFailed(t *testing.T) {
	for _, in := range []error{gorm.ErrForeignKeyViolated, &pgconn.PgError{Code: "23503"}} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
			t.Fatalf("%v: expected precondition code, got %q", in, domainagg.CodeOf(err))
		}
	}
}

func TestMapError_Retryable(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		err := MapError("op", &pgconn.PgError{Code: code})
		if !domainagg.IsCode(err, domainagg.CodeRetryable) {
			t.Fatalf("sqlstate %s: expected retryable code, got %q", code, domainagg.CodeOf(err))
		}
	}
	if err := MapError("op", errors.New("database is locked")); !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("sqlite busy: expected retryable code, got %q", domainagg.CodeOf(err))
	}
}

func TestMapError_Unavailable(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		context.Canceled,
		driver.ErrBadConn,
		&pgconn.PgError{Code: "08006"},
		&pgconn.PgError{Code: "57P01"},
		&pgconn.PgError{Code: "57014"},
		errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
	}
	for _, in := range cases {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeUnavailable) {
			t.Fatalf("%v: expected unavailable code, got %q", in, domainagg.CodeOf(err))
		}
		if !domainagg.CodeOf(err).Transient() {
			t.Fatalf("%v: expected transient code", in)
		}
	}
}

func TestMapError_Internal(t *testing.T) {
	err := MapError("op", errors.New("boom"))
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}
