package services

import (
	"fmt"
	"time"
)

const DefaultMinLeadTime = 48 * time.Hour

// LeadTimeValidator rejects services scheduled too close to now. The distance is measured in
// whole hours, truncated, and compared strictly: exactly the minimum is accepted.
type LeadTimeValidator struct {
	Minimum time.Duration
}

func (v LeadTimeValidator) minimumHours() int64 {
	if v.Minimum <= 0 {
		return int64(DefaultMinLeadTime / time.Hour)
	}
	return int64(v.Minimum / time.Hour)
}

func (v LeadTimeValidator) Check(now, scheduledAt time.Time) error {
	hours := int64(scheduledAt.Sub(now) / time.Hour)
	if minHours := v.minimumHours(); hours < minHours {
		return invalid("services.scheduledAt",
			fmt.Sprintf("%s is %d hours away, reservations need at least %d hours of notice",
				scheduledAt.Format(time.RFC3339), hours, minHours))
	}
	return nil
}

// CheckAll validates every requested service; the first violation is returned.
func (v LeadTimeValidator) CheckAll(now time.Time, services []RequestedService) error {
	for _, s := range services {
		if err := v.Check(now, s.ScheduledAt); err != nil {
			return err
		}
	}
	return nil
}
