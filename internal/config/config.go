// Package config loads and validates scenario configuration.
//
// A scenario file is a flat YAML mapping. It is decoded strictly (unknown
// keys are errors) into a Scenario value that is validated once, before any
// network interaction, and treated as immutable for the run.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Domain selects which scenario variant a config drives.
type Domain string

const (
	// DomainCarbon is the carbon-emissions accounting scenario: per-org
	// emission events transferred to a sink account.
	DomainCarbon Domain = "carbon"

	// DomainRetail is the retail-banking scenario: daily liquidity mints,
	// deposits, and peer-to-peer transfers between customer accounts.
	DomainRetail Domain = "retail"
)

// ErrValidation tags all configuration validation failures.
var ErrValidation = errors.New("invalid config")

// Scenario is the immutable configuration of one deterministic run.
//
// MinAmount/MaxAmount are denominated in the currency's minor unit for the
// retail domain and in kgCO2 for the carbon domain (where the driver's
// conversion function maps them to minor units).
type Scenario struct {
	Domain        Domain `yaml:"domain"`
	Seed          int64  `yaml:"seed"`
	Days          int    `yaml:"days"`
	Entities      int    `yaml:"entities"`
	Currency      string `yaml:"currency"`
	ReferenceFile string `yaml:"reference_file"`

	// ReferenceKey is the manifest key base for the reference file.
	// Defaults to "reference_file" when empty.
	ReferenceKey string `yaml:"reference_key,omitempty"`

	// ActivityProb gates per-org daily emission events (carbon).
	ActivityProb float64 `yaml:"activity_prob,omitempty"`

	// DepositProb gates per-customer daily deposits (retail).
	DepositProb float64 `yaml:"deposit_prob,omitempty"`

	// TransferProb scales the per-day count of peer transfers (retail):
	// floor(entities * TransferProb) transfers are attempted each day.
	TransferProb float64 `yaml:"transfer_prob,omitempty"`

	MinAmount int64 `yaml:"min_amount"`
	MaxAmount int64 `yaml:"max_amount"`

	// IdemPrefix namespaces every idempotency key of the run.
	IdemPrefix string `yaml:"idem_prefix"`
}

// Load reads, decodes, and validates a scenario file.
func Load(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var s Scenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if s.ReferenceKey == "" {
		s.ReferenceKey = "reference_file"
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate rejects invalid combinations before any ledger call is made.
func (s Scenario) Validate() error {
	switch s.Domain {
	case DomainCarbon, DomainRetail:
	default:
		return fmt.Errorf("%w: unknown domain %q", ErrValidation, s.Domain)
	}
	if s.Days < 0 {
		return fmt.Errorf("%w: days must be >= 0, got %d", ErrValidation, s.Days)
	}
	if s.Entities < 0 {
		return fmt.Errorf("%w: entities must be >= 0, got %d", ErrValidation, s.Entities)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrValidation)
	}
	if s.IdemPrefix == "" {
		return fmt.Errorf("%w: idem_prefix is required", ErrValidation)
	}
	if s.MinAmount < 0 {
		return fmt.Errorf("%w: min_amount must be >= 0, got %d", ErrValidation, s.MinAmount)
	}
	if s.MinAmount > s.MaxAmount {
		return fmt.Errorf("%w: min_amount %d > max_amount %d", ErrValidation, s.MinAmount, s.MaxAmount)
	}
	// The retail driver samples derived ranges: the day mint from
	// [min*100, max*10] on every day, and peer transfers from [min, max/10].
	// Both are well-formed exactly when 10*min <= max; reject inverted
	// configs here rather than failing mid-run after accounts were
	// already created.
	if s.Domain == DomainRetail && s.MinAmount*10 > s.MaxAmount {
		return fmt.Errorf("%w: retail requires max_amount >= 10*min_amount, got min %d max %d",
			ErrValidation, s.MinAmount, s.MaxAmount)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"activity_prob", s.ActivityProb},
		{"deposit_prob", s.DepositProb},
		{"transfer_prob", s.TransferProb},
	} {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %g", ErrValidation, p.name, p.v)
		}
	}
	return nil
}
