package handlers

import (
	"net/http"
	"time"

	recordsRepo "patitas/database/repository/records"
	"patitas/services/booking"
	"patitas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes appointment creation and calendar management.
type BookingHandler struct {
	Service booking.BookingService
	Records recordsRepo.RecordsRepository
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, records recordsRepo.RecordsRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Records: records, Logger: logger}
}

// BookHandler books an appointment on behalf of the authenticated
// professional (staff-assisted booking, including the raw-date override).
func (h *BookingHandler) BookHandler(c *gin.Context) {
	var req booking.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Error("Invalid booking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), req)
	if err != nil {
		status, msg := bookingErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

// PublicBookRequest is the unauthenticated booking-form payload. The tutor is
// resolved by email; the raw-date override is not available on this path.
type PublicBookRequest struct {
	ProfessionalID     string `json:"professionalId" binding:"required"`
	SlotID             string `json:"slotId" binding:"required"`
	PetID              string `json:"petId" binding:"required"`
	TutorEmail         string `json:"tutorEmail" binding:"required,email"`
	Reason             string `json:"reason" binding:"required"`
	ConsultationTypeID string `json:"consultationTypeId" binding:"required"`
}

// PublicBookHandler serves the public booking form.
func (h *BookingHandler) PublicBookHandler(c *gin.Context) {
	var req PublicBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	tutor, err := h.Records.FindTutorByEmail(c.Request.Context(), req.TutorEmail)
	if err != nil {
		// Deliberately the same wording as other validation failures; the
		// form should not reveal which emails exist.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking could not be validated"})
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), booking.BookRequest{
		ProfessionalID:     req.ProfessionalID,
		SlotID:             req.SlotID,
		PetID:              req.PetID,
		TutorID:            tutor.ID,
		Reason:             req.Reason,
		ConsultationTypeID: req.ConsultationTypeID,
	})
	if err != nil {
		status, msg := bookingErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

// CalendarHandler lists appointments for the authenticated professional in a
// date range (defaults to the next 7 days).
func (h *BookingHandler) CalendarHandler(c *gin.Context) {
	professionalID := c.GetString("professionalID")
	if professionalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Professional not authenticated"})
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, 7)
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
			return
		}
		to = t
	}

	appts, err := h.Service.Calendar(c.Request.Context(), professionalID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calendar", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// GetAppointmentHandler returns one appointment by ID.
func (h *BookingHandler) GetAppointmentHandler(c *gin.Context) {
	appt, err := h.Service.GetAppointment(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// UpdateAppointmentHandler applies a manual edit (trusted staff path).
func (h *BookingHandler) UpdateAppointmentHandler(c *gin.Context) {
	var req booking.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	appt, err := h.Service.UpdateAppointment(c.Request.Context(), c.Param("appointmentID"), req)
	if err != nil {
		status, msg := bookingErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// CancelAppointmentHandler cancels an appointment, freeing its interval.
func (h *BookingHandler) CancelAppointmentHandler(c *gin.Context) {
	if err := h.Service.CancelAppointment(c.Request.Context(), c.Param("appointmentID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

func bookingErrorStatus(err error) (int, string) {
	if be, ok := err.(*booking.BookingError); ok {
		switch be.Code {
		case "slotConflict":
			return http.StatusConflict, "Slot already booked"
		case "invalidConsultationType":
			return http.StatusUnprocessableEntity, "Unknown consultation type"
		case "validationError":
			return http.StatusUnprocessableEntity, "Booking could not be validated"
		}
	}
	utils.GetLogger().Error("Booking failed", zap.Error(err))
	return http.StatusInternalServerError, "Failed to process booking"
}
