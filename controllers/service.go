package controllers

import (
	"context"
	"net/http"
	"strings"

	"spa-backend/models"
	"spa-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogStore persists the service catalog.
type CatalogStore interface {
	FindServiceByName(ctx context.Context, name string) (*models.Service, error)
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	UpdateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

type ServiceController struct {
	catalog CatalogStore
}

func NewServiceController(catalog CatalogStore) *ServiceController {
	return &ServiceController{catalog: catalog}
}

// CreateService adds a new entry to the catalog
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Price == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Price is required")
		return
	}
	if !validPrice(c, *input.Price) {
		return
	}

	name := strings.TrimSpace(input.Name)
	if !sc.nameAvailable(c, name, uuid.Nil) {
		return
	}

	service := models.Service{
		Name:        name,
		Description: input.Description,
		Price:       input.Price.Round(2),
	}
	if err := sc.catalog.CreateService(c.Request.Context(), &service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves the whole catalog
func (sc *ServiceController) GetServices(c *gin.Context) {
	services, err := sc.catalog.ListServices(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, nonNil(services))
}

// GetService retrieves a specific service by ID
func (sc *ServiceController) GetService(c *gin.Context) {
	service, ok := sc.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateService changes the provided fields of a catalog entry
func (sc *ServiceController) UpdateService(c *gin.Context) {
	service, ok := sc.load(c)
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Service name cannot be empty")
			return
		}
		if !sc.nameAvailable(c, name, service.ID) {
			return
		}
		service.Name = name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		if !validPrice(c, *input.Price) {
			return
		}
		service.Price = input.Price.Round(2)
	}

	if err := sc.catalog.UpdateService(c.Request.Context(), service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a catalog entry
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}

	deleted, err := sc.catalog.DeleteService(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if !deleted {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

func (sc *ServiceController) load(c *gin.Context) (*models.Service, bool) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return nil, false
	}

	service, err := sc.catalog.FindServiceByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	if service == nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return nil, false
	}
	return service, true
}

// nameAvailable responds 409 when another service already uses name.
func (sc *ServiceController) nameAvailable(c *gin.Context, name string, self uuid.UUID) bool {
	existing, err := sc.catalog.FindServiceByName(c.Request.Context(), name)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return false
	}
	if existing != nil && existing.ID != self {
		utils.RespondWithError(c, http.StatusConflict, "Service with this name already exists")
		return false
	}
	return true
}

// validPrice responds 400 for negative prices.
func validPrice(c *gin.Context, price decimal.Decimal) bool {
	if price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price cannot be negative")
		return false
	}
	return true
}
