package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdrive/internal/sequencer"
)

var errLedgerDown = errors.New("ledger unavailable")

// failAfter forwards to a Recorder until its budget runs out, then fails
// every call. Models the fail-fast contract: the driver must abort on the
// first error with no retry.
type failAfter struct {
	inner     *Recorder
	remaining int
}

func (f *failAfter) call() error {
	if f.remaining == 0 {
		return errLedgerDown
	}
	f.remaining--
	return nil
}

func (f *failAfter) CreateAccount(ctx context.Context, label, currency, idemKey string) (string, error) {
	if err := f.call(); err != nil {
		return "", err
	}
	return f.inner.CreateAccount(ctx, label, currency, idemKey)
}

func (f *failAfter) Mint(ctx context.Context, accountID string, amountCents int64, idemKey string) (string, error) {
	if err := f.call(); err != nil {
		return "", err
	}
	return f.inner.Mint(ctx, accountID, amountCents, idemKey)
}

func (f *failAfter) Transfer(ctx context.Context, fromID, toID string, amountCents int64, idemKey string) (string, error) {
	if err := f.call(); err != nil {
		return "", err
	}
	return f.inner.Transfer(ctx, fromID, toID, amountCents, idemKey)
}

func TestDriver_AbortsOnFirstFailure(t *testing.T) {
	cfg := carbonConfig()
	rec := NewRecorder()
	lg := &failAfter{inner: rec, remaining: 5}

	d := New(cfg, sequencer.New(cfg.Seed), lg, testDigest)
	err := d.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, errLedgerDown)
	// Exactly the operations before the failure were submitted.
	assert.Len(t, rec.Ops(), 5)
}

func TestDriver_FailureDuringSetupLeavesNoActivity(t *testing.T) {
	cfg := carbonConfig()
	rec := NewRecorder()
	lg := &failAfter{inner: rec, remaining: 1}

	d := New(cfg, sequencer.New(cfg.Seed), lg, testDigest)
	err := d.Run(context.Background())

	require.Error(t, err)
	for _, op := range rec.Ops() {
		assert.Equal(t, OpCreateAccount, op.Kind)
	}
}
