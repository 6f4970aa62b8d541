package app

import (
	"github.com/yungbote/blueprints-backend/internal/http/handlers"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"github.com/yungbote/blueprints-backend/internal/realtime"
)

type Handlers struct {
	Blueprint *handlers.BlueprintHandler
	Realtime  *handlers.RealtimeHandler
	Health    *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Blueprint: handlers.NewBlueprintHandler(log, services.Blueprint),
		Realtime:  handlers.NewRealtimeHandler(log, hub),
		Health:    handlers.NewHealthHandler(),
	}
}
