package point

import (
	"errors"
	"testing"

	pointRepo "reserva/database/repository/point"
	"reserva/models"
)

// fakePointRepo is an in-memory PointRepository. forcedConflicts makes the
// next N SwapBalance calls lose the compare-and-swap.
type fakePointRepo struct {
	account         models.PointAccount
	entries         []models.PointEntry
	swaps           int
	forcedConflicts int
}

func (r *fakePointRepo) GetAccount(tenantID string) (*models.PointAccount, error) {
	if r.account.TenantID == "" {
		r.account = models.PointAccount{TenantID: tenantID}
	}
	copied := r.account
	return &copied, nil
}

func (r *fakePointRepo) SwapBalance(_ string, expectedVersion, newBalance int64) error {
	r.swaps++
	if r.forcedConflicts > 0 {
		r.forcedConflicts--
		// Emulate a concurrent writer winning the race.
		r.account.Version++
		return pointRepo.ErrVersionConflict
	}
	if r.account.Version != expectedVersion {
		return pointRepo.ErrVersionConflict
	}
	r.account.Balance = newBalance
	r.account.Version++
	return nil
}

func (r *fakePointRepo) AppendEntry(entry *models.PointEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakePointRepo) ListEntries(_ string, limit int64) ([]models.PointEntry, error) {
	if int64(len(r.entries)) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func TestCreditUpdatesBalanceAndLedger(t *testing.T) {
	repo := &fakePointRepo{}
	svc := &DefaultPointService{Repo: repo}

	account, err := svc.Credit("t1", 500, "monthly top-up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 500 {
		t.Errorf("balance = %d, want 500", account.Balance)
	}
	if len(repo.entries) != 1 || repo.entries[0].Delta != 500 {
		t.Fatalf("ledger = %+v, want one +500 line", repo.entries)
	}
	if repo.entries[0].Reason != "monthly top-up" {
		t.Errorf("reason = %q, want the caller's reason", repo.entries[0].Reason)
	}
}

func TestDebitRejectsInsufficientBalance(t *testing.T) {
	repo := &fakePointRepo{account: models.PointAccount{TenantID: "t1", Balance: 100, Version: 3}}
	svc := &DefaultPointService{Repo: repo}

	_, err := svc.Debit("t1", 250, "push overage")
	var insufficient *InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want *InsufficientBalanceError", err)
	}
	if insufficient.Balance != 100 || insufficient.Requested != 250 {
		t.Errorf("error detail = %+v, want balance 100 / requested 250", insufficient)
	}
	if repo.swaps != 0 {
		t.Errorf("swaps = %d, want 0 when the balance check fails", repo.swaps)
	}
	if len(repo.entries) != 0 {
		t.Errorf("ledger = %+v, want empty", repo.entries)
	}
}

func TestMutateRetriesVersionConflicts(t *testing.T) {
	repo := &fakePointRepo{
		account:         models.PointAccount{TenantID: "t1", Balance: 100},
		forcedConflicts: 2,
	}
	svc := &DefaultPointService{Repo: repo}

	account, err := svc.Debit("t1", 40, "booking fee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 60 {
		t.Errorf("balance = %d, want 60", account.Balance)
	}
	if repo.swaps != 3 {
		t.Errorf("swaps = %d, want 3 (two conflicts then success)", repo.swaps)
	}
}

func TestMutateGivesUpAfterRetryBudget(t *testing.T) {
	repo := &fakePointRepo{
		account:         models.PointAccount{TenantID: "t1", Balance: 100},
		forcedConflicts: 10,
	}
	svc := &DefaultPointService{Repo: repo}

	_, err := svc.Credit("t1", 10, "retry storm")
	if !errors.Is(err, ErrSystemBusy) {
		t.Fatalf("err = %v, want ErrSystemBusy", err)
	}
	if repo.swaps != maxWriteAttempts {
		t.Errorf("swaps = %d, want %d", repo.swaps, maxWriteAttempts)
	}
}

func TestAmountsMustBePositive(t *testing.T) {
	svc := &DefaultPointService{Repo: &fakePointRepo{}}

	if _, err := svc.Credit("t1", 0, "zero"); err == nil {
		t.Error("credit of zero should fail")
	}
	if _, err := svc.Debit("t1", -5, "negative"); err == nil {
		t.Error("negative debit should fail")
	}
}
