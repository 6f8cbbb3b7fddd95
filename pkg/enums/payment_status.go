package enums

import "fmt"

// PaymentStatus mirrors the checkout transaction states reported by the backend.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusInitiated,
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusExpired,
}

// IsValid checks whether the given status matches the canonical enum.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the payment can no longer change state.
func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentStatusPaid || p == PaymentStatusFailed || p == PaymentStatusExpired
}

// ParsePaymentStatus converts raw strings into PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
