package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
	"github.com/sirupsen/logrus"
)

// HoneybadgerMiddleware sends panics and failed requests to Honeybadger.
// With an empty apiKey it is a pass-through. On panic, it notifies Honeybadger
// and re-panics so gin.Recovery writes the response.
func HoneybadgerMiddleware(log *logrus.Logger, apiKey, env string) gin.HandlerFunc {
	if apiKey == "" {
		log.Info("Honeybadger is not active. To enable error reporting, set the HONEYBADGER_API_KEY environment variable.")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	honeybadger.Configure(honeybadger.Configuration{
		APIKey: apiKey,
		Env:    env,
	})
	log.Info("Honeybadger error reporting is enabled.")

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				honeybadger.Notify(fmt.Sprintf("Panic: %s %s", c.Request.Method, c.Request.URL.Path),
					c.Request, honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
				log.Error("Recovered from panic, notified Honeybadger: ", rec)
				panic(rec)
			}
		}()

		c.Next()

		// Unknown spots (404) and bad ids (400) are client noise.
		status := c.Writer.Status()
		if status < 500 {
			return
		}
		ctx := honeybadger.Context{"route": c.FullPath()}
		if len(c.Errors) > 0 {
			ctx["errors"] = c.Errors.String()
		}
		honeybadger.Notify(fmt.Sprintf("Error: HTTP %d: %s %s", status, c.Request.Method, c.Request.URL.Path),
			c.Request, ctx, honeybadger.Tags{"5XX", "http"})
		log.Warnf("Honeybadger reported HTTP %d for %s %s", status, c.Request.Method, c.Request.URL.Path)
	}
}
