package services

import (
	"sort"
	"time"

	"spa-backend/utils"
)

// RequestedService is one service instance asked for in a booking request.
type RequestedService struct {
	Name        string
	ScheduledAt time.Time
}

// DayGroup holds the requested services falling on one calendar date, in request order.
type DayGroup struct {
	Date     time.Time
	Services []RequestedService
	// Indexes are the positions of Services in the original request.
	Indexes []int
}

// GroupByDay partitions services by calendar date. Groups come back sorted by date; identical
// entries stay separate instances.
func GroupByDay(services []RequestedService) []DayGroup {
	byDate := make(map[time.Time]*DayGroup)
	var dates []time.Time
	for i, s := range services {
		date := utils.CalendarDate(s.ScheduledAt)
		group, ok := byDate[date]
		if !ok {
			group = &DayGroup{Date: date}
			byDate[date] = group
			dates = append(dates, date)
		}
		group.Services = append(group.Services, s)
		group.Indexes = append(group.Indexes, i)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		groups = append(groups, *byDate[d])
	}
	return groups
}
