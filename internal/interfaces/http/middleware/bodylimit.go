package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/ledger/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared Content-Length exceeds
// maxBytes and caps streaming bodies with http.MaxBytesReader so a
// missing Content-Length cannot bypass the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
