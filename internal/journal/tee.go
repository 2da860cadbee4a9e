package journal

import (
	"context"

	"ledgerdrive/internal/scenario"
)

// Tee is a scenario.Ledger that forwards every operation to an inner ledger
// and journals it once the inner submission succeeds. A journal write
// failure is fatal to the run: an unjournaled submission would make the
// audit trail lie by omission.
type Tee struct {
	inner scenario.Ledger
	j     *Journal
	runID string
	seq   int
}

// NewTee wraps inner so that successful operations are appended to j under
// runID. BeginRun must have been called for runID first.
func NewTee(inner scenario.Ledger, j *Journal, runID string) *Tee {
	return &Tee{inner: inner, j: j, runID: runID}
}

// Count returns how many operations have been journaled so far.
func (t *Tee) Count() int {
	return t.seq
}

func (t *Tee) CreateAccount(ctx context.Context, label, currency, idemKey string) (string, error) {
	id, err := t.inner.CreateAccount(ctx, label, currency, idemKey)
	if err != nil {
		return "", err
	}
	op := scenario.Operation{
		Kind:     scenario.OpCreateAccount,
		Label:    label,
		Currency: currency,
		IdemKey:  idemKey,
	}
	if err := t.append(ctx, op, id); err != nil {
		return "", err
	}
	return id, nil
}

func (t *Tee) Mint(ctx context.Context, accountID string, amountCents int64, idemKey string) (string, error) {
	txID, err := t.inner.Mint(ctx, accountID, amountCents, idemKey)
	if err != nil {
		return "", err
	}
	op := scenario.Operation{
		Kind:        scenario.OpMint,
		AccountID:   accountID,
		AmountCents: amountCents,
		IdemKey:     idemKey,
	}
	if err := t.append(ctx, op, txID); err != nil {
		return "", err
	}
	return txID, nil
}

func (t *Tee) Transfer(ctx context.Context, fromID, toID string, amountCents int64, idemKey string) (string, error) {
	txID, err := t.inner.Transfer(ctx, fromID, toID, amountCents, idemKey)
	if err != nil {
		return "", err
	}
	op := scenario.Operation{
		Kind:        scenario.OpTransfer,
		FromID:      fromID,
		ToID:        toID,
		AmountCents: amountCents,
		IdemKey:     idemKey,
	}
	if err := t.append(ctx, op, txID); err != nil {
		return "", err
	}
	return txID, nil
}

func (t *Tee) append(ctx context.Context, op scenario.Operation, ledgerRef string) error {
	if err := t.j.Append(ctx, t.runID, t.seq, op, ledgerRef); err != nil {
		return err
	}
	t.seq++
	return nil
}
