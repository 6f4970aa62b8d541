package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/blueprints-backend/internal/http/handlers"
	httpMW "github.com/yungbote/blueprints-backend/internal/http/middleware"
	"github.com/yungbote/blueprints-backend/internal/observability"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// ServiceName enables otelgin spans when non-empty.
	ServiceName    string
	AllowOrigins   []string
	RateLimit      httpMW.RateLimitConfig
	RequestTimeout time.Duration

	BlueprintHandler *httpH.BlueprintHandler
	RealtimeHandler  *httpH.RealtimeHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	limiter := httpMW.RateLimit(cfg.RateLimit)

	api := r.Group("/api/v1")
	api.Use(limiter)
	api.Use(httpMW.Timeout(cfg.RequestTimeout))
	{
		// Blueprints
		if cfg.BlueprintHandler != nil {
			api.GET("/blueprints", cfg.BlueprintHandler.GetAll)
			api.POST("/blueprints", cfg.BlueprintHandler.Create)
			api.GET("/blueprints/:author", cfg.BlueprintHandler.GetByAuthor)
			api.GET("/blueprints/:author/:bpname", cfg.BlueprintHandler.Get)
			api.GET("/blueprints/:author/:bpname/render.png", cfg.BlueprintHandler.RenderPNG)
			api.PUT("/blueprints/:author/:bpname/points", cfg.BlueprintHandler.AddPoint)
		}
	}

	// Realtime (SSE) streams are long-lived and skip the request timeout.
	stream := r.Group("/api/v1")
	stream.Use(limiter)
	{
		if cfg.RealtimeHandler != nil {
			stream.GET("/events", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
