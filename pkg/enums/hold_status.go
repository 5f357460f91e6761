package enums

import "fmt"

// HoldStatus distinguishes units physically with a seller from units
// already sold and owed for.
type HoldStatus string

const (
	HoldStatusHeld HoldStatus = "held"
	HoldStatusSold HoldStatus = "sold"
)

var validHoldStatuses = []HoldStatus{
	HoldStatusHeld,
	HoldStatusSold,
}

// String implements fmt.Stringer.
func (s HoldStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known HoldStatus.
func (s HoldStatus) IsValid() bool {
	for _, candidate := range validHoldStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseHoldStatus converts raw input into a HoldStatus.
func ParseHoldStatus(value string) (HoldStatus, error) {
	for _, candidate := range validHoldStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid hold status %q", value)
}
