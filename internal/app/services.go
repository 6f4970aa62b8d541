package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/blueprints-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/blueprints-backend/internal/domain/aggregates"
	"github.com/yungbote/blueprints-backend/internal/observability"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"github.com/yungbote/blueprints-backend/internal/services"
)

type Services struct {
	BlueprintAggregate domainagg.BlueprintAggregate
	Blueprint          services.BlueprintService
}

// wireServices accepts a nil publisher when change events are disabled.
func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	reposet Repos,
	events services.BlueprintEventPublisher,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")

	var hooks aggregates.Hooks
	if metrics != nil {
		hooks = aggregates.NewObservabilityHooks(metrics)
	}
	agg := aggregates.NewBlueprintAggregate(aggregates.BlueprintAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: hooks,
		},
		Blueprints: reposet.Blueprint,
		Points:     reposet.BlueprintPoint,
	})

	return Services{
		BlueprintAggregate: agg,
		Blueprint:          services.NewBlueprintService(log, agg, events, metrics),
	}
}
