package point

import (
	"errors"
	"fmt"
)

// ErrSystemBusy is returned when a balance write kept losing races after the
// bounded retry budget.
var ErrSystemBusy = errors.New("point system busy, please try again")

// InsufficientBalanceError is returned when a debit exceeds the balance.
type InsufficientBalanceError struct {
	TenantID  string
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("tenant %s has %d points, cannot debit %d", e.TenantID, e.Balance, e.Requested)
}
