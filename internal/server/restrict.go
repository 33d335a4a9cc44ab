package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RestrictIPAddresses lets only the listed client IPs through; an empty list
// allows everyone
func RestrictIPAddresses(ipAddresses []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(ipAddresses) == 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		for _, address := range ipAddresses {
			if address == clientIP {
				c.Next()
				return
			}
		}

		c.String(http.StatusUnauthorized, "Unauthorized access")
		c.Abort()
	}
}
