package enums

import "fmt"

// BorrowAction is the status written to the bookshelf log when the shelf
// device reports a physical checkout or return.
type BorrowAction string

const (
	BorrowActionBorrowed BorrowAction = "borrowed"
	BorrowActionReturned BorrowAction = "returned"
)

var validBorrowActions = []BorrowAction{
	BorrowActionBorrowed,
	BorrowActionReturned,
}

// String implements fmt.Stringer.
func (a BorrowAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known BorrowAction.
func (a BorrowAction) IsValid() bool {
	for _, candidate := range validBorrowActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseBorrowAction converts raw input into a BorrowAction.
func ParseBorrowAction(value string) (BorrowAction, error) {
	for _, candidate := range validBorrowActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid borrow action %q", value)
}
