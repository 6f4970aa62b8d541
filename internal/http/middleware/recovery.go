package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/blueprints-backend/internal/http/response"
	"github.com/yungbote/blueprints-backend/internal/platform/ctxutil"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

var errPanic = errors.New("internal error")

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			fields := append([]interface{}{"panic", recovered, "path", c.Request.URL.Path}, ctxutil.LogFields(c.Request.Context())...)
			log.Error("panic recovered", fields...)
		}
		response.AbortWithError(c, http.StatusInternalServerError, errPanic)
	})
}
