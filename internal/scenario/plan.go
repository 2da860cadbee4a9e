package scenario

import (
	"context"
	"io"
	"log/slog"

	"ledgerdrive/internal/config"
	"ledgerdrive/internal/sequencer"
)

// Plan regenerates the full deterministic operation sequence for cfg without
// touching a ledger. Used by the plan command, by journal verification, and
// anywhere else the seed-determined sequence is needed on its own.
func Plan(cfg config.Scenario, digest string, opts ...Option) ([]Operation, error) {
	rec := NewRecorder()
	smp := sequencer.New(cfg.Seed)

	// Dry runs are silent unless the caller overrides the logger.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithLogger(quiet)}, opts...)

	d := New(cfg, smp, rec, digest, opts...)
	if err := d.Run(context.Background()); err != nil {
		return nil, err
	}
	return rec.Ops(), nil
}
