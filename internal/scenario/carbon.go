package scenario

import (
	"context"
	"fmt"

	"ledgerdrive/internal/sequencer"
)

// runCarbon executes the carbon-emissions accounting scenario: every org
// holds a seeded carbon budget, and each triggered daily activity moves the
// converted emission amount from the org to the sink account.
func (d *Driver) runCarbon(ctx context.Context) error {
	cfg := d.cfg
	p := cfg.IdemPrefix

	sink, err := d.ledger.CreateAccount(ctx, "CARBON_SINK", cfg.Currency, sequencer.SinkAccountKey(p))
	if err != nil {
		return fmt.Errorf("create sink account: %w", err)
	}
	funding, err := d.ledger.CreateAccount(ctx, "CarbonFundingPool", cfg.Currency, sequencer.FundingAccountKey(p))
	if err != nil {
		return fmt.Errorf("create funding account: %w", err)
	}
	if _, err := d.ledger.Mint(ctx, funding, bootstrapLiquidityCents, sequencer.BootstrapMintKey(p)); err != nil {
		return fmt.Errorf("bootstrap mint: %w", err)
	}
	d.log.Info("system accounts ready", "sink", sink, "funding", funding)

	// Org accounts in ordinal order, each seeded with a sampled budget.
	orgs := make([]string, 0, cfg.Entities)
	for i := 0; i < cfg.Entities; i++ {
		org, err := d.ledger.CreateAccount(ctx, fmt.Sprintf("Org-%05d", i), cfg.Currency, sequencer.OrgAccountKey(p, i))
		if err != nil {
			return fmt.Errorf("create org %d: %w", i, err)
		}
		orgs = append(orgs, org)

		amt := d.smp.IntBetween(seedBudgetMinCents, seedBudgetMaxCents)
		if _, err := d.ledger.Transfer(ctx, funding, org, amt, sequencer.SeedTransferKey(p, i)); err != nil {
			return fmt.Errorf("seed org %d: %w", i, err)
		}
	}
	d.log.Info("org accounts seeded", "count", len(orgs))

	// Daily emission events: ascending day, then ascending org order.
	for day := 0; day < cfg.Days; day++ {
		for i, org := range orgs {
			if d.smp.Float64() >= cfg.ActivityProb {
				continue
			}
			kg := d.smp.IntBetween(cfg.MinAmount, cfg.MaxAmount)
			cents := d.convert(kg)
			key := sequencer.EmissionKey(p, day, i, kg, d.digest)
			if _, err := d.ledger.Transfer(ctx, org, sink, cents, key); err != nil {
				return fmt.Errorf("emission day %d org %d: %w", day, i, err)
			}
			d.log.Debug("emission recorded", "day", day, "org", i, "kg", kg)
		}
	}
	return nil
}
