package enums

import "fmt"

// NotificationKind tags a transient storefront notification.
type NotificationKind string

const (
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindError   NotificationKind = "error"
	NotificationKindCart    NotificationKind = "cart"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindSuccess,
	NotificationKindError,
	NotificationKindCart,
}

// IsValid checks whether the given kind matches the canonical enum.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw strings into NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
