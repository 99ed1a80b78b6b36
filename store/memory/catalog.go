package memory

import (
	"context"
	"fmt"
	"sort"

	"spa-backend/models"

	"github.com/google/uuid"
)

func (s *Store) FindServiceByName(_ context.Context, name string) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, service := range s.services {
		if service.Name == name {
			found := service
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) FindServiceByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	service, ok := s.services[id]
	if !ok {
		return nil, nil
	}
	return &service, nil
}

func (s *Store) ListServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	services := make([]models.Service, 0, len(s.services))
	for _, service := range s.services {
		services = append(services, service)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

func (s *Store) CreateService(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUniqueName(service); err != nil {
		return err
	}
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	s.services[service.ID] = *service
	return nil
}

func (s *Store) UpdateService(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUniqueName(service); err != nil {
		return err
	}
	s.services[service.ID] = *service
	return nil
}

func (s *Store) DeleteService(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[id]; !ok {
		return false, nil
	}
	delete(s.services, id)
	return true, nil
}

func (s *Store) checkUniqueName(service *models.Service) error {
	for id, existing := range s.services {
		if existing.Name == service.Name && id != service.ID {
			return fmt.Errorf("service name %q already exists", service.Name)
		}
	}
	return nil
}
