// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package poll runs the waiting loops of the consumer workflow (negotiation
// state, EDR availability) as an explicit state machine: each probe maps the
// remote state to an Outcome through a Table, and a single Policy decides
// cadence and timeout.
package poll

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raulk/clock"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

// Outcome is the verdict of one probe.
type Outcome int

const (
	Continue Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrTimeout is returned by Run when the policy timeout elapses before a
	// terminal outcome.
	ErrTimeout = errors.New("poll timeout")
	// ErrFailed is returned by Run when the probe reports Failed.
	ErrFailed = errors.New("poll reached failure state")
)

// Table maps normalized remote states to outcomes. States absent from the
// table continue polling.
type Table map[string]Outcome

// Normalize strips a namespace prefix ("dspace:", "edc:", IRI) and upper-cases.
func Normalize(state string) string {
	s := strings.TrimSpace(state)
	if i := strings.LastIndexAny(s, ":/#"); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToUpper(s)
}

// Classify returns the outcome for a remote state.
func (t Table) Classify(state string) Outcome {
	if o, ok := t[Normalize(state)]; ok {
		return o
	}
	return Continue
}

// Policy is the cadence of one loop. With Factor 1 the interval is fixed;
// with Factor > 1 it grows up to MaxInterval.
type Policy struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxInterval time.Duration
	Factor      float64
}

// FromConfig converts the configured timing of a loop.
func FromConfig(c config.PollConfig) Policy {
	return Policy{Interval: c.Interval, Timeout: c.Timeout, MaxInterval: c.MaxInterval, Factor: c.Factor}
}

func (p Policy) backoff() *backoff.Backoff {
	factor := p.Factor
	if factor <= 0 {
		factor = 1
	}
	maxInterval := p.MaxInterval
	if maxInterval < p.Interval {
		maxInterval = p.Interval
	}
	return &backoff.Backoff{Min: p.Interval, Max: maxInterval, Factor: factor}
}

// Stats describes a finished loop.
type Stats struct {
	Attempts  int
	Elapsed   time.Duration
	LastState string
}

// Probe performs one attempt. A non-empty state is recorded in Stats.
type Probe[T any] func(ctx context.Context, attempt int) (Outcome, string, T, error)

// Poller runs probes under a Policy using an injectable clock.
type Poller struct {
	policy Policy
	clock  clock.Clock
}

// New returns a Poller; a nil clock means the wall clock.
func New(p Policy, clk clock.Clock) *Poller {
	if clk == nil {
		clk = clock.New()
	}
	return &Poller{policy: p, clock: clk}
}

// Policy returns the cadence the poller was built with.
func (p *Poller) Policy() Policy { return p.policy }

// Run calls probe until it returns Succeeded or Failed, the probe returns an
// error, ctx is done or the policy timeout elapses. Attempts are scheduled at
// Interval steps (grown by Factor), so a state that never changes is probed
// floor(Timeout/Interval)+1 times with a fixed interval. Each attempt runs
// under a context bounded by the time left before Timeout, never less than
// one Interval; a probe cut short by that bound ends the loop with
// ErrTimeout. Cancellation of ctx is reported as ctx.Err().
func Run[T any](ctx context.Context, p *Poller, probe Probe[T]) (T, Stats, error) {
	var (
		val       T
		stats     Stats
		scheduled time.Duration
	)
	if p.policy.Interval <= 0 || p.policy.Timeout <= 0 {
		return val, stats, errors.New("poll: interval and timeout must be positive")
	}

	b := p.policy.backoff()
	start := p.clock.Now()

	for {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = p.clock.Since(start)
			return val, stats, err
		}

		stats.Attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, p.attemptBudget(start))
		outcome, state, v, err := probe(attemptCtx, stats.Attempts)
		expired := attemptCtx.Err() != nil && ctx.Err() == nil
		cancel()
		stats.Elapsed = p.clock.Since(start)
		if state != "" {
			stats.LastState = state
		}
		val = v
		if err != nil {
			if expired {
				return val, stats, ErrTimeout
			}
			return val, stats, err
		}

		switch outcome {
		case Succeeded:
			return val, stats, nil
		case Failed:
			return val, stats, ErrFailed
		}

		wait := b.Duration()
		if scheduled+wait > p.policy.Timeout || p.clock.Since(start) >= p.policy.Timeout {
			return val, stats, ErrTimeout
		}
		scheduled += wait

		timer := p.clock.Timer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			stats.Elapsed = p.clock.Since(start)
			return val, stats, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poller) attemptBudget(start time.Time) time.Duration {
	return max(p.policy.Timeout-p.clock.Since(start), p.policy.Interval)
}
