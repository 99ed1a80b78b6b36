package services

import (
	"context"

	"spa-backend/models"
)

// Catalog resolves service names to their canonical catalog entry. Names match exactly.
type Catalog struct {
	finder CatalogFinder
}

func NewCatalog(finder CatalogFinder) *Catalog {
	return &Catalog{finder: finder}
}

func (c *Catalog) Lookup(ctx context.Context, name string) (*models.Service, error) {
	service, err := c.finder.FindServiceByName(ctx, name)
	if err != nil {
		return nil, persistence("find service", err)
	}
	if service == nil {
		return nil, notFound("service", name)
	}
	return service, nil
}
