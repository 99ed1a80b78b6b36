package store

import (
	"context"
	"errors"

	"spa-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the Postgres-backed repository for every aggregate of the spa. Calls are retried
// according to its RetryPolicy when Postgres reports a transient failure.
type Store struct {
	db     *gorm.DB
	retry  RetryPolicy
	logger *zap.Logger
}

func New(db *gorm.DB, retry RetryPolicy, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, retry: retry, logger: logger}
}

// Migrate creates or updates every table the store uses.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.Client{},
		&models.StaffMember{},
		&models.Service{},
		&models.Reservation{},
		&models.ReservationService{},
		&models.Payment{},
		&models.ReminderLog{},
		&models.OutboxEvent{},
	)
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) FindClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return findOne[models.Client](ctx, s, "id = ?", id)
}

func (s *Store) FindStaffByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error) {
	return findOne[models.StaffMember](ctx, s, "id = ?", id)
}

func (s *Store) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	return retry(ctx, s.retry, func() ([]models.StaffMember, error) {
		var staff []models.StaffMember
		err := s.db.WithContext(ctx).Order("last_name, first_name").Find(&staff).Error
		return staff, err
	})
}

func (s *Store) SaveReminderLog(ctx context.Context, log *models.ReminderLog) error {
	return retryExec(ctx, s.retry, func() error {
		return s.db.WithContext(ctx).Create(log).Error
	})
}

// findOne returns nil without error when no row matches.
func findOne[T any](ctx context.Context, s *Store, query string, args ...any) (*T, error) {
	return retry(ctx, s.retry, func() (*T, error) {
		var record T
		err := s.db.WithContext(ctx).Where(query, args...).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &record, nil
	})
}
