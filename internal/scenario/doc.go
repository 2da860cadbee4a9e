// Package scenario generates and submits deterministic synthetic ledger
// workloads.
//
// ARCHITECTURE:
//
// Single-Threaded Linear Progression:
// A Driver executes one scenario as a strict linear phase sequence:
// system accounts, bootstrap liquidity, entity accounts with seed budgets,
// then the daily activity loop (ascending day, ascending entity creation
// order). There is no state machine beyond this progression and no operation
// is concurrent with another.
//
// CRITICAL PATTERNS:
//
// Explicit Sampling Source:
// Every probabilistic decision is drawn from the injected Sampler, in a
// fixed, config-determined call order. NEVER branch a sampling call on
// external state (wall clock, network latency, map iteration order) - that
// breaks the guarantee that a seed reproduces the run bit-for-bit.
//
// Idempotent Submission:
// Every operation carries a key derived purely from its structural
// coordinates. Rerunning a scenario regenerates the identical key sequence,
// so the ledger service deduplicates the effects. The driver itself performs
// no retry and aborts on the first submission failure.
//
// Response Independence:
// The only thing a driver reads from a ledger response is the created
// account id, stored by ordinal for later reference. No sampling call and no
// control-flow decision depends on response content, so network behavior
// cannot perturb the plan.
package scenario
