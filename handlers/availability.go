package handlers

import (
	"net/http"
	"strconv"
	"time"

	"patitas/models"
	"patitas/services/availability"
	"patitas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler exposes slot publishing and open-slot listings.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// PublishSlotsHandler creates slots for the authenticated professional,
// either a one-off interval or a weekly recurrence.
func (h *AvailabilityHandler) PublishSlotsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	professionalID := c.GetString("professionalID")
	if professionalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Professional not authenticated"})
		return
	}

	var req models.PublishAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid availability request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	req.ProfessionalID = professionalID

	slots, err := h.Service.Publish(c.Request.Context(), req)
	if err != nil {
		status, msg := availabilityErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

// OpenSlotsHandler lists bookable slots for a professional, day and
// consultation duration. Public: the booking form calls this without auth.
func (h *AvailabilityHandler) OpenSlotsHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	day := c.Query("date")
	if professionalID == "" || day == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing professional ID or date"})
		return
	}

	duration := models.BaseUnitMinutes
	if raw := c.Query("durationMinutes"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid durationMinutes"})
			return
		}
		duration = d
	}

	slots, err := h.Service.OpenSlots(c.Request.Context(), professionalID, day, duration, time.Now())
	if err != nil {
		status, msg := availabilityErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// DeleteSlotHandler removes one published slot.
func (h *AvailabilityHandler) DeleteSlotHandler(c *gin.Context) {
	professionalID := c.GetString("professionalID")
	if professionalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Professional not authenticated"})
		return
	}

	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	if err := h.Service.Remove(c.Request.Context(), professionalID, slotID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to delete slot", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

func availabilityErrorStatus(err error) (int, string) {
	if ae, ok := err.(*availability.AvailabilityError); ok {
		switch ae.Code {
		case "duplicateSlot":
			return http.StatusConflict, "Slot collision"
		case "invalidInterval":
			return http.StatusBadRequest, "Invalid interval"
		}
	}
	return http.StatusInternalServerError, "Failed to process availability request"
}
