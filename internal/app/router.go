package app

import (
	httpserver "github.com/yungbote/blueprints-backend/internal/http"
	"github.com/yungbote/blueprints-backend/internal/observability"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

func wireServer(cfg Config, log *logger.Logger, handlerset Handlers, metrics *observability.Metrics) *httpserver.Server {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		AllowOrigins:     cfg.CORSAllowOrigins,
		RateLimit:        cfg.RateLimit(),
		RequestTimeout:   cfg.DBStatementTimeout,
		BlueprintHandler: handlerset.Blueprint,
		RealtimeHandler:  handlerset.Realtime,
		HealthHandler:    handlerset.Health,
	})
}
