package controllers

import (
	"net/http"
	"time"

	"spa-backend/services"
	"spa-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct {
	reports *services.ReportService
	now     func() time.Time
}

func NewReportController(reports *services.ReportService, now func() time.Time) *ReportController {
	if now == nil {
		now = time.Now
	}
	return &ReportController{reports: reports, now: now}
}

// GetRevenue reports payments between ?from= and ?to= (YYYY-MM-DD, inclusive). The window
// defaults to the current month up to today.
func (rc *ReportController) GetRevenue(c *gin.Context) {
	now := rc.now()
	year, month, _ := now.Date()
	from := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := utils.ParseDate(raw, now.Location())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := utils.ParseDate(raw, now.Location())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		to = parsed
	}

	report, err := rc.reports.Revenue(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
