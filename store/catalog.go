package store

import (
	"context"

	"spa-backend/models"

	"github.com/google/uuid"
)

func (s *Store) FindServiceByName(ctx context.Context, name string) (*models.Service, error) {
	return findOne[models.Service](ctx, s, "name = ?", name)
}

func (s *Store) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return findOne[models.Service](ctx, s, "id = ?", id)
}

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	return retry(ctx, s.retry, func() ([]models.Service, error) {
		var services []models.Service
		err := s.db.WithContext(ctx).Order("name").Find(&services).Error
		return services, err
	})
}

func (s *Store) CreateService(ctx context.Context, service *models.Service) error {
	return retryExec(ctx, s.retry, func() error {
		return s.db.WithContext(ctx).Create(service).Error
	})
}

func (s *Store) UpdateService(ctx context.Context, service *models.Service) error {
	return retryExec(ctx, s.retry, func() error {
		return s.db.WithContext(ctx).Save(service).Error
	})
}

// DeleteService reports false when no service had that id.
func (s *Store) DeleteService(ctx context.Context, id uuid.UUID) (bool, error) {
	return retry(ctx, s.retry, func() (bool, error) {
		result := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
		return result.RowsAffected > 0, result.Error
	})
}
