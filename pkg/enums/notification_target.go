package enums

import "fmt"

// NotificationTarget scopes a notification to an audience.
type NotificationTarget string

const (
	NotificationTargetVendor   NotificationTarget = "vendor"
	NotificationTargetCustomer NotificationTarget = "customer"
	NotificationTargetBoth     NotificationTarget = "both"
)

var validNotificationTargets = []NotificationTarget{
	NotificationTargetVendor,
	NotificationTargetCustomer,
	NotificationTargetBoth,
}

// String implements fmt.Stringer.
func (n NotificationTarget) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationTarget.
func (n NotificationTarget) IsValid() bool {
	for _, candidate := range validNotificationTargets {
		if candidate == n {
			return true
		}
	}
	return false
}

// Matches reports whether a notification with this target is visible to the
// given role. Admins see everything.
func (n NotificationTarget) Matches(role UserRole) bool {
	if role == UserRoleAdmin {
		return true
	}
	if n == NotificationTargetBoth {
		return true
	}
	return string(n) == string(role)
}

// ParseNotificationTarget converts raw input into a NotificationTarget.
func ParseNotificationTarget(value string) (NotificationTarget, error) {
	for _, candidate := range validNotificationTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification target %q", value)
}
