package controllers

import (
	"net/http"

	"spa-backend/services"

	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	reminders *services.ReminderService
}

func NewReminderController(reminders *services.ReminderService) *ReminderController {
	return &ReminderController{reminders: reminders}
}

// RunReminders sends tomorrow's reminders immediately instead of waiting for the schedule
func (rc *ReminderController) RunReminders(c *gin.Context) {
	run, err := rc.reminders.SendDailyReminders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
