package models

import (
	"fmt"
	"strings"
)

// StaffRole is the job a staff member holds at the spa.
type StaffRole string

const (
	RoleEsthetician                 StaffRole = "ESTHETICIAN"
	RoleAdvancedEstheticsTechnician StaffRole = "ADVANCED_ESTHETICS_TECHNICIAN"
	RoleNailCareSpecialist          StaffRole = "NAIL_CARE_SPECIALIST"
	RoleTherapeuticMasseur          StaffRole = "THERAPEUTIC_MASSEUR"
	RoleSpaTherapist                StaffRole = "SPA_THERAPIST"
	RoleAreaCoordinator             StaffRole = "AREA_COORDINATOR"
	RoleReceptionist                StaffRole = "RECEPTIONIST"
	RoleYogaInstructor              StaffRole = "YOGA_INSTRUCTOR"
	RoleNutritionist                StaffRole = "NUTRITIONIST"
	RoleGeneralManager              StaffRole = "GENERAL_MANAGER"
)

func (r StaffRole) Valid() bool {
	switch r {
	case RoleEsthetician, RoleAdvancedEstheticsTechnician, RoleNailCareSpecialist,
		RoleTherapeuticMasseur, RoleSpaTherapist, RoleAreaCoordinator, RoleReceptionist,
		RoleYogaInstructor, RoleNutritionist, RoleGeneralManager:
		return true
	}
	return false
}

// Bookable reports whether staff holding the role can be attached to a reservation.
func (r StaffRole) Bookable() bool {
	switch r {
	case RoleEsthetician, RoleAdvancedEstheticsTechnician, RoleNailCareSpecialist,
		RoleTherapeuticMasseur, RoleSpaTherapist, RoleAreaCoordinator, RoleReceptionist,
		RoleYogaInstructor, RoleNutritionist, RoleGeneralManager:
		return true
	default:
		return false
	}
}

// PaymentMethod is how the client settles a reservation.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentTransfer   PaymentMethod = "TRANSFER"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !method.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return method, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentTransfer:
		return true
	}
	return false
}

// Label is the human readable name printed on invoices.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCreditCard:
		return "Credit card"
	case PaymentDebitCard:
		return "Debit card"
	case PaymentTransfer:
		return "Bank transfer"
	default:
		return string(m)
	}
}

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return status, nil
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}
