package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
)

// Recovery returns middleware that turns a panic into a 500 envelope and
// logs it with its stack. It must be first in the chain. onPanic, if
// given, also receives the panic value and stack.
func Recovery(onPanic ...func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()

			for _, fn := range onPanic {
				fn(r, stack)
			}

			logging.FromContext(c.Request.Context()).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(stack)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", dto.GetTraceID(c)),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			dto.AbortWithCode(c, dto.ErrorCodeInternal, "an internal error occurred")
		}()

		c.Next()
	}
}
