package handlers

import (
	"net/http"
	"time"

	"patitas/services/reminder"
	"patitas/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes operational endpoints for clinic staff.
type AdminHandler struct {
	Reminders reminder.ReminderService
}

func NewAdminHandler(reminders reminder.ReminderService) *AdminHandler {
	return &AdminHandler{Reminders: reminders}
}

// RunRemindersHandler triggers both reminder passes immediately, outside the
// periodic schedule. Safe to call at any time: the flag-guarded mark keeps a
// manual run from duplicating sends.
func (h *AdminHandler) RunRemindersHandler(c *gin.Context) {
	reports, err := h.Reminders.RunAll(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder run failed", "message": err.Error(), "reports": reports})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
}
