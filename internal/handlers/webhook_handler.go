package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/communityhub/server/internal/services"
	"github.com/gin-gonic/gin"
)

// maxWebhookBody caps the raw payload Stripe may send us.
const maxWebhookBody = int64(65536)

// StripeWebhook receives asynchronous payment notifications. The body must
// stay raw for signature verification, so no JSON binding happens here.
func StripeWebhook(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read webhook request body"})
			return
		}

		signature := c.GetHeader("Stripe-Signature")
		if strings.TrimSpace(signature) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing Stripe-Signature header"})
			return
		}

		if err := ps.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
			if errors.Is(err, services.ErrInvalidSignature) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
