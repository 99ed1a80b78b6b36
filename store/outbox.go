package store

import (
	"context"
	"time"

	"spa-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelayOutbox locks up to limit unpublished events, hands them to publish in creation order and
// marks them published when publish succeeds. Rows locked by a concurrent relay are skipped.
func (s *Store) RelayOutbox(ctx context.Context, limit int, publish func(context.Context, []models.OutboxEvent) error) (int, error) {
	relayed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events []models.OutboxEvent
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("published_at IS NULL").
			Order("created_at ASC").
			Limit(limit).
			Find(&events).Error; err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		if err := publish(ctx, events); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		if err := tx.Model(&models.OutboxEvent{}).
			Where("id IN ?", ids).
			Update("published_at", time.Now().UTC()).Error; err != nil {
			return err
		}
		relayed = len(events)
		return nil
	})
	return relayed, err
}
