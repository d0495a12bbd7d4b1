package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			return
		}

		organizerID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
			return
		}

		var req models.CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), &req, organizerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid page parameter"))
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}

		filters := models.EventFilters{
			Category: c.Query("category"),
			Location: c.Query("location"),
			Upcoming: c.Query("upcoming") == "true",
		}

		events, total, err := es.ListEvents(c.Request.Context(), filters, (page-1)*limit, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, total))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
			return
		}

		event, err := es.GetEvent(c.Request.Context(), eventID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

// requireOrganizer loads the event and verifies the session user owns it.
func requireOrganizer(c *gin.Context, es *services.EventService) (*models.EventDetail, bool) {
	claims, ok := sessionClaims(c)
	if !ok {
		return nil, false
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
		return nil, false
	}

	event, err := es.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found"))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
		return nil, false
	}

	if !claims.IsOwner(event.OrganizerID.String()) && !claims.IsAdmin() {
		c.JSON(http.StatusForbidden, models.ErrorResponse("only the event organizer can modify this event"))
		return nil, false
	}
	return event, true
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := requireOrganizer(c, es)
		if !ok {
			return
		}

		var req models.UpdateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), event.ID, &req)
		if err != nil {
			if errors.Is(err, models.ErrCapacityTooLow) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":                err.Error(),
					"currentRegistrations": event.RegisteredAttendees,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Event updated successfully"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := requireOrganizer(c, es)
		if !ok {
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), event.ID); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted successfully"))
	}
}

// RegisterForEvent books a free seat for the session user.
func RegisterForEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
			return
		}

		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		eventID, err := uuid.Parse(req.EventID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
			return
		}

		attendee, err := es.Register(c.Request.Context(), eventID, userID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found"))
			case errors.Is(err, models.ErrPastEvent):
				c.JSON(http.StatusBadRequest, models.ErrorResponse("Cannot register for past events"))
			case errors.Is(err, models.ErrEventFull):
				c.JSON(http.StatusBadRequest, models.ErrorResponse("Event is full"))
			case errors.Is(err, models.ErrAlreadyRegistered):
				c.JSON(http.StatusBadRequest, models.ErrorResponse("You are already registered for this event"))
			default:
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to register for event"))
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Registration successful",
			"registrationId": attendee.ID,
		})
	}
}
