package enums

import "fmt"

// AccessStatus is the stored state of a thesis access request. Expiry is
// derived at read time and never written back, so "expired" rows still read
// as approved here.
type AccessStatus string

const (
	AccessStatusPending  AccessStatus = "pending"
	AccessStatusApproved AccessStatus = "approved"
	AccessStatusDenied   AccessStatus = "denied"
)

var validAccessStatuses = []AccessStatus{
	AccessStatusPending,
	AccessStatusApproved,
	AccessStatusDenied,
}

// String implements fmt.Stringer.
func (s AccessStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AccessStatus.
func (s AccessStatus) IsValid() bool {
	for _, candidate := range validAccessStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAccessStatus converts raw input into an AccessStatus.
func ParseAccessStatus(value string) (AccessStatus, error) {
	for _, candidate := range validAccessStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access status %q", value)
}
