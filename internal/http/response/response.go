package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/blueprints-backend/internal/platform/apierr"
)

const MessageOK = "execute ok"

// Envelope wraps every JSON response body.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

func RespondOK(c *gin.Context, payload any) {
	Respond(c, http.StatusOK, MessageOK, payload)
}

func RespondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	Respond(c, status, msg, nil)
}

// RespondAPIError writes err using the status carried by an *apierr.Error,
// or 500 for anything else.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.As(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	RespondError(c, ae.Status, ae)
}

// AbortWithError writes the envelope and stops the handler chain.
func AbortWithError(c *gin.Context, status int, err error) {
	RespondError(c, status, err)
	c.Abort()
}
