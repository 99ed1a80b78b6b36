package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"spa-backend/models"
	"spa-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultReminderSchedule runs the reminder job every day at 9 AM.
const DefaultReminderSchedule = "0 9 * * *"

// ReminderRun counts the outcome of one reminder pass.
type ReminderRun struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// ReminderService reminds clients of the services they have scheduled for tomorrow.
type ReminderService struct {
	reservations ReservationStore
	logs         ReminderLogStore
	messenger    Messenger
	now          func() time.Time
	logger       *zap.Logger
	cron         *cron.Cron
}

// NewReminderService builds the job. A nil messenger records every reminder as skipped.
func NewReminderService(reservations ReservationStore, logs ReminderLogStore, messenger Messenger, now func() time.Time, logger *zap.Logger) *ReminderService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		reservations: reservations,
		logs:         logs,
		messenger:    messenger,
		now:          now,
		logger:       logger,
	}
}

// StartScheduler runs SendDailyReminders on the given cron schedule until StopScheduler.
func (s *ReminderService) StartScheduler(schedule string) error {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			s.logger.Error("daily reminders failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("reminder scheduler started", zap.String("schedule", schedule))
	return nil
}

// StopScheduler stops the scheduler and waits for a running pass to finish.
func (s *ReminderService) StopScheduler() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SendDailyReminders sends one message per non-cancelled reservation with services tomorrow.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (ReminderRun, error) {
	tomorrow := s.now().AddDate(0, 0, 1)
	from, to := utils.BeginningOfDay(tomorrow), utils.EndOfDay(tomorrow)

	reservations, err := s.reservations.FindReservationsWithServicesBetween(ctx, from, to)
	if err != nil {
		return ReminderRun{}, persistence("find reservations for reminders", err)
	}

	var run ReminderRun
	for i := range reservations {
		r := &reservations[i]
		if r.Status == models.StatusCancelled || r.Client == nil {
			continue
		}

		var due []models.ReservationService
		for _, item := range r.Services {
			if !item.ScheduledAt.Before(from) && !item.ScheduledAt.After(to) {
				due = append(due, item)
			}
		}
		if len(due) == 0 {
			continue
		}

		entry := s.remind(ctx, r, due)
		switch entry.Status {
		case models.ReminderSent:
			run.Sent++
		case models.ReminderFailed:
			run.Failed++
		default:
			run.Skipped++
		}

		if err := s.logs.SaveReminderLog(ctx, entry); err != nil {
			s.logger.Error("failed to log reminder",
				zap.String("reservation_id", r.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("daily reminder processing completed",
		zap.String("date", from.Format(utils.DateLayout)),
		zap.Int("sent", run.Sent),
		zap.Int("failed", run.Failed),
		zap.Int("skipped", run.Skipped))
	return run, nil
}

func (s *ReminderService) remind(ctx context.Context, r *models.Reservation, due []models.ReservationService) *models.ReminderLog {
	entry := &models.ReminderLog{
		ClientID:      r.ClientID,
		ReservationID: r.ID,
		Message:       reminderMessage(r.Client, due),
		SentAt:        s.now(),
	}

	switch {
	case s.messenger == nil:
		entry.Status = models.ReminderSkipped
		entry.ErrorMessage = "messaging disabled"
	case !utils.ValidatePhone(r.Client.Phone):
		entry.Status = models.ReminderSkipped
		entry.ErrorMessage = "no valid phone number"
	default:
		channel, err := s.messenger.Send(ctx, utils.NormalizePhone(r.Client.Phone), entry.Message)
		entry.Channel = channel
		if err != nil {
			entry.Status = models.ReminderFailed
			entry.ErrorMessage = err.Error()
			s.logger.Warn("failed to send reminder",
				zap.String("reservation_id", r.ID.String()),
				zap.Error(err))
		} else {
			entry.Status = models.ReminderSent
		}
	}
	return entry
}

func reminderMessage(client *models.Client, due []models.ReservationService) string {
	sort.SliceStable(due, func(i, j int) bool { return due[i].ScheduledAt.Before(due[j].ScheduledAt) })

	parts := make([]string, 0, len(due))
	for _, item := range due {
		name := "service"
		if item.Service != nil {
			name = item.Service.Name
		}
		parts = append(parts, fmt.Sprintf("%s at %s", name, item.ScheduledAt.Format("15:04")))
	}
	return fmt.Sprintf("Hi %s, this is a reminder of your spa services tomorrow: %s.",
		client.FirstName, strings.Join(parts, ", "))
}
