package enums

import "fmt"

// PromoStatus tracks whether a vendor promo is currently boosting listings.
type PromoStatus string

const (
	PromoStatusActive  PromoStatus = "active"
	PromoStatusExpired PromoStatus = "expired"
)

var validPromoStatuses = []PromoStatus{
	PromoStatusActive,
	PromoStatusExpired,
}

// String implements fmt.Stringer.
func (p PromoStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromoStatus.
func (p PromoStatus) IsValid() bool {
	for _, candidate := range validPromoStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromoStatus converts raw input into a PromoStatus.
func ParsePromoStatus(value string) (PromoStatus, error) {
	for _, candidate := range validPromoStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo status %q", value)
}
