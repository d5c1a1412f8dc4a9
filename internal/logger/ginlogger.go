package logger

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// GinLogger logs one line per request.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		cost := time.Since(start)

		Infof("| %3d | %13v | %15v | %-7s  \"%s\"", c.Writer.Status(),
			cost,
			c.ClientIP(),
			c.Request.Method,
			c.Request.URL)
	}
}

// GinRecovery turns a panic into a 500 and logs the request that caused it.
func GinRecovery(stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// A broken connection does not warrant a stack trace.
				var brokenPipe bool
				if ne, ok := err.(*net.OpError); ok {
					var se *os.SyscallError
					if errors.As(ne.Err, &se) {
						msg := strings.ToLower(se.Error())
						if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
							brokenPipe = true
						}
					}
				}

				httpRequest, _ := httputil.DumpRequest(c.Request, false)
				if brokenPipe {
					Errorf("%s: %v\n%s", c.Request.URL.Path, err, string(httpRequest))
					c.Abort()
					return
				}

				if stack {
					Errorf("[Recovery from panic]\nError: %v\nRequest: %v\nStack trace:\n%v",
						err, string(httpRequest), string(debug.Stack()))
				} else {
					Errorf("[Recovery from panic]\nError: %v\nRequest: %v\n", err, string(httpRequest))
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
