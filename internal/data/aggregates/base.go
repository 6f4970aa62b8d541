package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/blueprints-backend/internal/domain/aggregates"
	"github.com/yungbote/blueprints-backend/internal/platform/dbctx"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op, "aggregate.write")
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)
	observe(deps, op, mapped, start)
	return mapped
}

// executeRead runs fn outside a transaction with the same error mapping and
// hooks as writes.
func executeRead(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op, "aggregate.read")
	var err error
	if fn != nil {
		err = fn(dbctx.Context{Ctx: ctx})
	}
	mapped := MapError(op, err)
	observe(deps, op, mapped, start)
	return mapped
}

func observe(deps BaseDeps, op string, mapped error, start time.Time) {
	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.CodeOf(mapped).Transient() {
			deps.Hooks.IncRetry(op)
		}
		if status == string(domainagg.CodeInternal) || domainagg.CodeOf(mapped).Transient() {
			deps.Log.Warn("aggregate operation failed", "op", op, "status", status, "error", mapped)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
}

func normalizeOp(op, fallback string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return fallback
	}
	return op
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
