package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/communityhub/server/internal/helpers"
	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTicketIntent starts the paid registration flow: provider intent
// plus a PENDING registration keyed by the intent id.
func CreateTicketIntent(ps *services.PaymentService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TicketIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := ps.CreateTicketIntent(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, services.ErrNoRegistrationFee) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Event not found or no registration fee defined"})
				return
			}
			logger.Error("payment intent creation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"clientSecret":   result.ClientSecret,
			"registrationId": result.RegistrationID,
		})
	}
}

// CreateDonationIntent starts the donation flow. A session is optional;
// when present the donation is linked to the donor.
func CreateDonationIntent(ps *services.PaymentService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DonationIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid donation amount is required"})
			return
		}

		var userID *uuid.UUID
		if userClaims, exists := c.Get("user"); exists {
			if claims, ok := userClaims.(*helpers.SessionClaims); ok {
				if id, err := uuid.Parse(claims.UserID); err == nil {
					userID = &id
				}
			}
		}

		result, err := ps.CreateDonationIntent(c.Request.Context(), &req, userID)
		if err != nil {
			if errors.Is(err, services.ErrInvalidAmount) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Valid donation amount is required"})
				return
			}
			logger.Error("donation payment intent creation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process donation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"clientSecret": result.ClientSecret,
			"donationId":   result.DonationID,
		})
	}
}

// VerifyPayment is the client's fallback confirmation signal: it re-queries
// the provider and cross-checks the local record.
func VerifyPayment(ps *services.PaymentService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PaymentIntent string `json:"paymentIntent"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.PaymentIntent == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment intent ID is required"})
			return
		}

		result, err := ps.VerifyPayment(c.Request.Context(), req.PaymentIntent)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"status":  "failed",
					"message": "Registration not found",
				})
				return
			}
			logger.Error("error verifying payment", "intent_id", req.PaymentIntent, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "failed",
				"message": "Error verifying payment status",
			})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GetDonation lets clients poll for the webhook-driven status flip.
func GetDonation(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		donationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid donation ID format"))
			return
		}

		donation, err := ps.GetDonation(c.Request.Context(), donationID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("Donation not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(donation, ""))
	}
}
