package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerdrive/internal/config"
)

// Bootstrap liquidity minted into the funding pool before any transfer,
// and the budget range seeded into each entity account, in minor units.
const (
	bootstrapLiquidityCents = 10_000_000_00
	seedBudgetMinCents      = 50_00
	seedBudgetMaxCents      = 5000_00
)

// ConvertFunc maps a sampled carbon quantity (kgCO2) to ledger minor units.
type ConvertFunc func(kg int64) int64

// identityProxy is the placeholder 1 kgCO2 == 1 minor-unit mapping. It is a
// flow-volume proxy, not a real conversion; swap it via WithConversion once
// a real factor model exists.
func identityProxy(kg int64) int64 { return kg }

// Driver generates and submits one scenario's full operation sequence.
type Driver struct {
	cfg     config.Scenario
	smp     Sampler
	ledger  Ledger
	digest  string
	convert ConvertFunc
	log     *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithConversion replaces the carbon quantity conversion.
func WithConversion(fn ConvertFunc) Option {
	return func(d *Driver) { d.convert = fn }
}

// WithLogger replaces the driver's logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// New creates a Driver. digest is the provenance digest of the run's
// reference file (or the missing sentinel); the carbon variant folds its
// prefix into emission keys.
func New(cfg config.Scenario, smp Sampler, lg Ledger, digest string, opts ...Option) *Driver {
	d := &Driver{
		cfg:     cfg,
		smp:     smp,
		ledger:  lg,
		digest:  digest,
		convert: identityProxy,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the configured scenario variant from start to finish.
// The first submission failure aborts the run; nothing is rolled back, and
// a rerun with the same config regenerates the same idempotency keys, so
// already-applied operations are deduplicated by the ledger.
func (d *Driver) Run(ctx context.Context) error {
	switch d.cfg.Domain {
	case config.DomainCarbon:
		return d.runCarbon(ctx)
	case config.DomainRetail:
		return d.runRetail(ctx)
	default:
		return fmt.Errorf("scenario: unknown domain %q", d.cfg.Domain)
	}
}
