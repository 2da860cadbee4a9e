package scenario

import (
	"context"
	"fmt"
)

// Recorder is an in-memory Ledger that assigns synthetic ids and records
// every operation in submission order. It backs dry runs (the plan command),
// journal verification, and the determinism tests: running a driver against
// a Recorder yields the exact (kind, payload, key) sequence a real run would
// submit, minus the ledger-assigned ids.
type Recorder struct {
	ops      []Operation
	accounts int
	txs      int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Ops returns the recorded operations in submission order.
func (r *Recorder) Ops() []Operation {
	return r.ops
}

// CreateAccount records the operation and returns a synthetic ordinal id.
func (r *Recorder) CreateAccount(_ context.Context, label, currency, idemKey string) (string, error) {
	id := fmt.Sprintf("acct-%04d", r.accounts)
	r.accounts++
	r.ops = append(r.ops, Operation{
		Kind:     OpCreateAccount,
		Label:    label,
		Currency: currency,
		IdemKey:  idemKey,
	})
	return id, nil
}

// Mint records the operation and returns a synthetic transaction id.
func (r *Recorder) Mint(_ context.Context, accountID string, amountCents int64, idemKey string) (string, error) {
	r.ops = append(r.ops, Operation{
		Kind:        OpMint,
		AccountID:   accountID,
		AmountCents: amountCents,
		IdemKey:     idemKey,
	})
	return r.nextTx(), nil
}

// Transfer records the operation and returns a synthetic transaction id.
func (r *Recorder) Transfer(_ context.Context, fromID, toID string, amountCents int64, idemKey string) (string, error) {
	r.ops = append(r.ops, Operation{
		Kind:        OpTransfer,
		FromID:      fromID,
		ToID:        toID,
		AmountCents: amountCents,
		IdemKey:     idemKey,
	})
	return r.nextTx(), nil
}

func (r *Recorder) nextTx() string {
	id := fmt.Sprintf("tx-%04d", r.txs)
	r.txs++
	return id
}
