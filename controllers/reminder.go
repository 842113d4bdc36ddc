// controllers/reminder.go
package controllers

import (
	"context"
	"net/http"

	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Reminders interface {
	SendDailyReminders(ctx context.Context) (int, error)
}

type ReminderController struct {
	reminders Reminders
}

// NewReminderController accepts a nil Reminders when SMS is not configured.
func NewReminderController(reminders Reminders) *ReminderController {
	return &ReminderController{reminders: reminders}
}

// SendReminders runs tomorrow's reminder batch now instead of waiting for cron.
func (rc *ReminderController) SendReminders(c *gin.Context) {
	if rc.reminders == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "SMS reminders are not configured")
		return
	}

	sent, err := rc.reminders.SendDailyReminders(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to send reminders")
		return
	}

	logrus.WithField("sent", sent).Info("Reminder batch triggered manually")
	utils.RespondWithData(c, http.StatusOK, gin.H{"sent": sent})
}
