// internal/api/ingest.go
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"submission-receipts/internal/common/logger"
)

// DispatchFunc processes one raw event delivery. A nil return consumes the
// delivery; a non-nil return means the caller should redeliver it.
type DispatchFunc func(ctx context.Context, raw []byte) error

// RegisterIngest mounts the substrate-facing delivery endpoint. The bridge in
// front of the event stream POSTs one message per request; 204 acknowledges
// it, 503 asks for redelivery. This endpoint must not be exposed past the
// ingress that terminates the stream bridge.
func RegisterIngest(router *gin.Engine, dispatch DispatchFunc, log logger.Logger) {
	router.POST("/internal/events", func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if err := dispatch(c.Request.Context(), raw); err != nil {
			log.WithError(err).Error("Delivery failed, requesting redelivery", nil)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "delivery failed"})
			return
		}

		c.Status(http.StatusNoContent)
	})
}
