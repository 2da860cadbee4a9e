package scenario

import (
	"context"
	"fmt"

	"ledgerdrive/internal/sequencer"
)

// runRetail executes the retail-banking scenario: customers receive seeded
// balances and daily deposits from the funding pool, and a per-day batch of
// peer-to-peer transfers moves money between customers.
func (d *Driver) runRetail(ctx context.Context) error {
	cfg := d.cfg
	p := cfg.IdemPrefix

	funding, err := d.ledger.CreateAccount(ctx, "FundingPool", cfg.Currency, sequencer.FundingAccountKey(p))
	if err != nil {
		return fmt.Errorf("create funding account: %w", err)
	}
	if _, err := d.ledger.Mint(ctx, funding, bootstrapLiquidityCents, sequencer.BootstrapMintKey(p)); err != nil {
		return fmt.Errorf("bootstrap mint: %w", err)
	}

	accounts := make([]string, 0, cfg.Entities)
	for i := 0; i < cfg.Entities; i++ {
		acc, err := d.ledger.CreateAccount(ctx, fmt.Sprintf("Customer-%05d", i), cfg.Currency, sequencer.CustomerAccountKey(p, i))
		if err != nil {
			return fmt.Errorf("create customer %d: %w", i, err)
		}
		accounts = append(accounts, acc)

		amt := d.smp.IntBetween(cfg.MinAmount, cfg.MaxAmount)
		if _, err := d.ledger.Transfer(ctx, funding, acc, amt, sequencer.SeedTransferKey(p, i)); err != nil {
			return fmt.Errorf("seed customer %d: %w", i, err)
		}
	}
	d.log.Info("customer accounts seeded", "count", len(accounts))

	// floor(entities * transfer_prob) peer transfers are attempted per day.
	peerTransfers := int(float64(cfg.Entities) * cfg.TransferProb)

	for day := 0; day < cfg.Days; day++ {
		// Daily liquidity so deposits cannot drain the pool.
		dayMint := d.smp.IntBetween(cfg.MinAmount*100, cfg.MaxAmount*10)
		if _, err := d.ledger.Mint(ctx, funding, dayMint, sequencer.DayMintKey(p, day)); err != nil {
			return fmt.Errorf("day %d mint: %w", day, err)
		}

		// Deposits: funding pool into each triggered customer account.
		for i, acc := range accounts {
			if d.smp.Float64() >= cfg.DepositProb {
				continue
			}
			amt := d.smp.IntBetween(cfg.MinAmount, cfg.MaxAmount)
			if _, err := d.ledger.Transfer(ctx, funding, acc, amt, sequencer.DepositKey(p, day, i)); err != nil {
				return fmt.Errorf("deposit day %d customer %d: %w", day, i, err)
			}
		}

		// Peer transfers with independently sampled counterparties.
		// Self-pairs are skipped before the amount is sampled so the
		// sampling-call order stays a pure function of the config.
		for k := 0; k < peerTransfers; k++ {
			a := d.smp.IntN(cfg.Entities)
			b := d.smp.IntN(cfg.Entities)
			if a == b {
				continue
			}
			amt := d.smp.IntBetween(cfg.MinAmount, cfg.MaxAmount/10)
			key := sequencer.PeerTransferKey(p, day, a, b, amt)
			if _, err := d.ledger.Transfer(ctx, accounts[a], accounts[b], amt, key); err != nil {
				return fmt.Errorf("peer transfer day %d %d->%d: %w", day, a, b, err)
			}
		}
		d.log.Debug("day complete", "day", day)
	}
	return nil
}
