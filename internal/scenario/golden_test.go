package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"ledgerdrive/internal/config"
	"ledgerdrive/internal/provenance"
)

// scriptedSampler is a hand-steered Sampler for golden tests: gates always
// fire, bounded samples return the lower bound, and counterparty picks come
// from a scripted cycle. The resulting plan is computable by inspection,
// which is what makes the golden files reviewable.
type scriptedSampler struct {
	picks []int
	next  int
}

func (s *scriptedSampler) Float64() float64 { return 0 }

func (s *scriptedSampler) IntBetween(lo, hi int64) int64 { return lo }

func (s *scriptedSampler) IntN(n int) int {
	v := s.picks[s.next%len(s.picks)] % n
	s.next++
	return v
}

func runScripted(t *testing.T, cfg config.Scenario, smp Sampler, digest string) []Operation {
	t.Helper()
	rec := NewRecorder()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New(cfg, smp, rec, digest, WithLogger(quiet))
	require.NoError(t, d.Run(context.Background()))
	return rec.Ops()
}

func assertGoldenPlan(t *testing.T, name string, ops []Operation) {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(ops))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}

func TestGolden_CarbonPlan(t *testing.T) {
	cfg := config.Scenario{
		Domain:       config.DomainCarbon,
		Seed:         1,
		Days:         1,
		Entities:     2,
		Currency:     "GBP",
		ActivityProb: 1.0,
		MinAmount:    5,
		MaxAmount:    9,
		IdemPrefix:   "mrv",
	}

	ops := runScripted(t, cfg, &scriptedSampler{picks: []int{0}}, provenance.Missing)
	assertGoldenPlan(t, "carbon_plan", ops)
}

func TestGolden_RetailPlan(t *testing.T) {
	cfg := config.Scenario{
		Domain:       config.DomainRetail,
		Seed:         1,
		Days:         1,
		Entities:     2,
		Currency:     "USD",
		DepositProb:  1.0,
		TransferProb: 1.0,
		MinAmount:    100,
		MaxAmount:    1000,
		IdemPrefix:   "retail",
	}

	ops := runScripted(t, cfg, &scriptedSampler{picks: []int{0, 1, 1, 0}}, provenance.Missing)
	assertGoldenPlan(t, "retail_plan", ops)
}
