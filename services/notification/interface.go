package notification

import "fmt"

// QuotaExceededError is returned when a push would exceed the tenant's
// monthly budget. The push is not sent.
type QuotaExceededError struct {
	TenantID string
	Used     int64
	Limit    int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("tenant %s push quota exhausted (%d/%d this month)", e.TenantID, e.Used, e.Limit)
}
