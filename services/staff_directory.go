package services

import (
	"context"

	"spa-backend/models"

	"go.uber.org/zap"
)

// ServiceRoles maps a catalog service name to the staff roles allowed to perform it.
type ServiceRoles map[string][]models.StaffRole

// Allows reports whether role may perform service. The general manager may perform any service.
func (sr ServiceRoles) Allows(service string, role models.StaffRole) bool {
	if role == models.RoleGeneralManager {
		return true
	}
	for _, allowed := range sr[service] {
		if allowed == role {
			return true
		}
	}
	return false
}

// StaffDirectory answers which staff members can be booked, overall or for one service.
type StaffDirectory struct {
	staff  StaffFinder
	roles  ServiceRoles
	logger *zap.Logger
}

func NewStaffDirectory(staff StaffFinder, roles ServiceRoles, logger *zap.Logger) *StaffDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffDirectory{staff: staff, roles: roles, logger: logger}
}

// ForReservations lists staff whose role lets them take reservations.
func (d *StaffDirectory) ForReservations(ctx context.Context) ([]models.StaffMember, error) {
	return d.filter(ctx, func(m models.StaffMember) bool {
		return m.Role.Bookable()
	})
}

// ForService lists staff allowed to perform service. Unknown services only yield general managers.
func (d *StaffDirectory) ForService(ctx context.Context, service string) ([]models.StaffMember, error) {
	members, err := d.filter(ctx, func(m models.StaffMember) bool {
		return d.roles.Allows(service, m.Role)
	})
	if err != nil {
		return nil, err
	}
	d.logger.Debug("staff filtered by service",
		zap.String("service", service),
		zap.Int("count", len(members)))
	return members, nil
}

func (d *StaffDirectory) filter(ctx context.Context, keep func(models.StaffMember) bool) ([]models.StaffMember, error) {
	all, err := d.staff.ListStaff(ctx)
	if err != nil {
		return nil, persistence("list staff", err)
	}
	members := make([]models.StaffMember, 0, len(all))
	for _, m := range all {
		if keep(m) {
			members = append(members, m)
		}
	}
	return members, nil
}
