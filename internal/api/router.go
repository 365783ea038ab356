// internal/api/router.go
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"submission-receipts/internal/common/logger"
)

// ownerHeader carries the authenticated owner identity, injected by the
// ingress layer in front of this service.
const ownerHeader = "X-Owner-Id"

// NewRouter builds the query surface. All routes are owner-scoped reads.
func NewRouter(service *Service, log logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := &receiptHandler{service: service, log: log}

	receipts := router.Group("/api/receipts")
	receipts.Use(requireOwner())
	{
		receipts.GET("", handler.list)
		receipts.GET("/headers", handler.listHeaders)
		receipts.GET("/:submissionId", handler.get)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

func requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(ownerHeader) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing owner identity"})
			return
		}
		c.Next()
	}
}

type receiptHandler struct {
	service *Service
	log     logger.Logger
}

func (h *receiptHandler) list(c *gin.Context) {
	ownerID := c.GetHeader(ownerHeader)

	receipts, err := h.service.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list receipts", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list receipts"})
		return
	}

	c.JSON(http.StatusOK, receipts)
}

func (h *receiptHandler) listHeaders(c *gin.Context) {
	ownerID := c.GetHeader(ownerHeader)

	headers, err := h.service.ListHeadersForOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list receipt headers", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list receipts"})
		return
	}

	c.JSON(http.StatusOK, headers)
}

func (h *receiptHandler) get(c *gin.Context) {
	ownerID := c.GetHeader(ownerHeader)
	submissionID := c.Param("submissionId")

	receipt, err := h.service.GetForOwner(c.Request.Context(), submissionID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "receipt belongs to another owner"})
		default:
			h.log.WithError(err).Error("Failed to fetch receipt", map[string]interface{}{
				"submissionId": submissionID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch receipt"})
		}
		return
	}

	c.JSON(http.StatusOK, receipt)
}
