package middleware

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/logger"
)

// Recovery turns a panic in a later handler into a 500 problem response.
// gin handles broken connections itself; everything else is logged through
// the request logger instead of gin's default writer.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.Ctx(c.Request.Context()).Error("panic recovered",
			logger.String("panic", fmt.Sprint(rec)),
			logger.String("stack", string(debug.Stack())),
		)

		if c.Writer.Written() {
			c.Abort()
			return
		}
		apierror.AbortWithProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
	})
}
