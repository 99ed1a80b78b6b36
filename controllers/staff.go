package controllers

import (
	"net/http"
	"strings"

	"spa-backend/models"
	"spa-backend/services"

	"github.com/gin-gonic/gin"
)

type StaffController struct {
	directory *services.StaffDirectory
}

func NewStaffController(directory *services.StaffDirectory) *StaffController {
	return &StaffController{directory: directory}
}

// GetStaff lists staff eligible for ?service=NAME, or every staff member who can take
// reservations when no service is given
func (sc *StaffController) GetStaff(c *gin.Context) {
	ctx := c.Request.Context()

	var members []models.StaffMember
	var err error
	if service := strings.TrimSpace(c.Query("service")); service != "" {
		members, err = sc.directory.ForService(ctx, service)
	} else {
		members, err = sc.directory.ForReservations(ctx)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(members))
}
