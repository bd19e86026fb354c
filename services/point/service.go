package point

import (
	"errors"
	"fmt"

	pointRepo "reserva/database/repository/point"
	"reserva/models"
	"reserva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxWriteAttempts bounds optimistic retries on version conflicts.
const maxWriteAttempts = 3

// PointService manages tenant point balances with an append-only ledger.
type PointService interface {
	Credit(tenantID string, amount int64, reason string) (*models.PointAccount, error)
	Debit(tenantID string, amount int64, reason string) (*models.PointAccount, error)
	Balance(tenantID string) (*models.PointAccount, error)
	History(tenantID string, limit int64) ([]models.PointEntry, error)
}

// DefaultPointService implements PointService.
type DefaultPointService struct {
	Repo pointRepo.PointRepository
}

// Credit adds points to the tenant's balance.
func (s *DefaultPointService) Credit(tenantID string, amount int64, reason string) (*models.PointAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	return s.mutate(tenantID, amount, reason)
}

// Debit removes points from the tenant's balance.
func (s *DefaultPointService) Debit(tenantID string, amount int64, reason string) (*models.PointAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	return s.mutate(tenantID, -amount, reason)
}

// mutate applies a balance delta with a versioned compare-and-swap, retried
// up to maxWriteAttempts on conflict before surfacing ErrSystemBusy.
func (s *DefaultPointService) mutate(tenantID string, delta int64, reason string) (*models.PointAccount, error) {
	logger := utils.GetLogger()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		account, err := s.Repo.GetAccount(tenantID)
		if err != nil {
			return nil, err
		}

		newBalance := account.Balance + delta
		if newBalance < 0 {
			return nil, &InsufficientBalanceError{
				TenantID:  tenantID,
				Balance:   account.Balance,
				Requested: -delta,
			}
		}

		err = s.Repo.SwapBalance(tenantID, account.Version, newBalance)
		if err == nil {
			entry := &models.PointEntry{
				ID:       uuid.New().String(),
				TenantID: tenantID,
				Delta:    delta,
				Reason:   reason,
			}
			if err := s.Repo.AppendEntry(entry); err != nil {
				// The balance moved; a missing ledger line is logged, not
				// unwound.
				logger.Error("failed to append point ledger entry",
					zap.String("tenantId", tenantID), zap.Int64("delta", delta), zap.Error(err))
			}
			account.Balance = newBalance
			account.Version++
			return account, nil
		}
		if !errors.Is(err, pointRepo.ErrVersionConflict) {
			return nil, err
		}
		logger.Warn("point balance write conflicted, retrying",
			zap.String("tenantId", tenantID), zap.Int("attempt", attempt))
	}

	return nil, ErrSystemBusy
}

// Balance returns the tenant's current account.
func (s *DefaultPointService) Balance(tenantID string) (*models.PointAccount, error) {
	return s.Repo.GetAccount(tenantID)
}

// History returns the most recent ledger lines.
func (s *DefaultPointService) History(tenantID string, limit int64) ([]models.PointEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.ListEntries(tenantID, limit)
}
