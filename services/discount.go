package services

import (
	"fmt"
	"strings"

	"spa-backend/models"
)

type DiscountMode string

const (
	// DiscountFixedByMethod grants DebitCardPercentage to debit card payments and nothing else.
	DiscountFixedByMethod DiscountMode = "fixed-by-method"
	// DiscountCallerSupplied honours the request's discount hint, for debit card payments only.
	DiscountCallerSupplied DiscountMode = "caller-supplied"
)

const DefaultDebitCardDiscount = 15

func ParseDiscountMode(s string) (DiscountMode, error) {
	switch mode := DiscountMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case DiscountFixedByMethod, DiscountCallerSupplied:
		return mode, nil
	case "":
		return DiscountFixedByMethod, nil
	}
	return "", fmt.Errorf("unknown discount mode %q", s)
}

type DiscountPolicy struct {
	Mode                DiscountMode
	DebitCardPercentage int
}

func (p DiscountPolicy) debitCardPercentage() int {
	if p.DebitCardPercentage <= 0 {
		return DefaultDebitCardDiscount
	}
	return p.DebitCardPercentage
}

// Percentage returns the discount applied to every day of a reservation paid with method.
func (p DiscountPolicy) Percentage(method models.PaymentMethod, hint *int) (int, error) {
	if hint != nil && (*hint < 0 || *hint > 100) {
		return 0, invalid("discount", fmt.Sprintf("%d is outside 0..100", *hint))
	}

	switch method {
	case models.PaymentDebitCard:
		if p.Mode == DiscountCallerSupplied {
			if hint == nil {
				return 0, nil
			}
			return *hint, nil
		}
		return p.debitCardPercentage(), nil
	case models.PaymentCash, models.PaymentCreditCard, models.PaymentTransfer:
		return 0, nil
	default:
		return 0, invalid("paymentMethod", fmt.Sprintf("unknown payment method %q", method))
	}
}
