package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpgradeToHttps redirects plaintext requests that reached us through a TLS
// terminating proxy, recognised by X-Forwarded-Proto: http. Non-GET requests
// get a 308 so the method and the upload body are kept.
func UpgradeToHttps() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") != "http" {
			c.Next()
			return
		}

		code := http.StatusMovedPermanently
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			code = http.StatusPermanentRedirect
		}
		c.Redirect(code, "https://"+c.Request.Host+c.Request.RequestURI)
		c.Abort()
	}
}
