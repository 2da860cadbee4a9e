package journal

import (
	"fmt"

	"ledgerdrive/internal/scenario"
)

// Divergence describes the first point where a journaled run differs from
// the plan its seed and config regenerate.
type Divergence struct {
	Seq      int    // submission ordinal, -1 for a length mismatch
	Field    string // which field differed
	Recorded string // value in the journal
	Expected string // value in the regenerated plan
}

func (d *Divergence) String() string {
	if d.Seq < 0 {
		return fmt.Sprintf("operation count mismatch: journal has %s, plan has %s", d.Recorded, d.Expected)
	}
	return fmt.Sprintf("operation %d: %s mismatch: journal %q, plan %q", d.Seq, d.Field, d.Recorded, d.Expected)
}

// Compare checks a journaled run against a regenerated plan and returns the
// first divergence, or nil when they match.
//
// Account and transaction ids are deployment-specific (the ledger assigns
// them), so only the seed-determined coordinates are compared: operation
// kind, idempotency key, amount, and the create-account label/currency.
func Compare(recorded []Entry, expected []scenario.Operation) *Divergence {
	if len(recorded) != len(expected) {
		return &Divergence{
			Seq:      -1,
			Field:    "count",
			Recorded: fmt.Sprintf("%d", len(recorded)),
			Expected: fmt.Sprintf("%d", len(expected)),
		}
	}
	for i, entry := range recorded {
		got, want := entry.Op, expected[i]
		switch {
		case got.Kind != want.Kind:
			return diverge(i, "kind", string(got.Kind), string(want.Kind))
		case got.IdemKey != want.IdemKey:
			return diverge(i, "idempotency_key", got.IdemKey, want.IdemKey)
		case got.AmountCents != want.AmountCents:
			return diverge(i, "amount_cents",
				fmt.Sprintf("%d", got.AmountCents), fmt.Sprintf("%d", want.AmountCents))
		case got.Label != want.Label:
			return diverge(i, "label", got.Label, want.Label)
		case got.Currency != want.Currency:
			return diverge(i, "currency", got.Currency, want.Currency)
		}
	}
	return nil
}

func diverge(seq int, field, recorded, expected string) *Divergence {
	return &Divergence{Seq: seq, Field: field, Recorded: recorded, Expected: expected}
}
