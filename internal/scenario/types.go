package scenario

import "context"

// OpKind identifies one of the three idempotent ledger operations.
type OpKind string

const (
	OpCreateAccount OpKind = "create_account"
	OpMint          OpKind = "mint"
	OpTransfer      OpKind = "transfer"
)

// Operation is the flattened record of one submitted ledger operation.
// Which fields are populated depends on Kind. The (Kind, amount, key)
// triple is fully determined by the seed and config; account ids come from
// whatever Ledger the driver ran against.
type Operation struct {
	Kind     OpKind `json:"kind"`
	Label    string `json:"label,omitempty"`
	Currency string `json:"currency,omitempty"`

	// AccountID is the mint target.
	AccountID string `json:"account_id,omitempty"`

	// FromID/ToID are the transfer endpoints.
	FromID string `json:"from_id,omitempty"`
	ToID   string `json:"to_id,omitempty"`

	AmountCents int64  `json:"amount_cents,omitempty"`
	IdemKey     string `json:"idempotency_key"`
}

// Ledger is the submission boundary the driver emits through. The HTTP
// client implements it for real runs; Recorder implements it for dry runs
// and tests. Every method blocks until the operation is durably accepted or
// returns an error, which the driver treats as fatal.
type Ledger interface {
	CreateAccount(ctx context.Context, label, currency, idemKey string) (string, error)
	Mint(ctx context.Context, accountID string, amountCents int64, idemKey string) (string, error)
	Transfer(ctx context.Context, fromID, toID string, amountCents int64, idemKey string) (string, error)
}

// Sampler is the deterministic sampling source a driver draws from.
// Implemented by sequencer.Sequencer; tests substitute scripted values.
type Sampler interface {
	// Float64 returns a uniform sample in [0, 1).
	Float64() float64
	// IntBetween returns a uniform sample in the inclusive range [lo, hi].
	IntBetween(lo, hi int64) int64
	// IntN returns a uniform sample in [0, n).
	IntN(n int) int
}
