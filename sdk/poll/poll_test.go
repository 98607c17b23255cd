// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/poll"
)

var table = poll.Table{
	"FINALIZED":  poll.Succeeded,
	"TERMINATED": poll.Failed,
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "FINALIZED", poll.Normalize("dspace:FINALIZED"))
	assert.Equal(t, "FINALIZED", poll.Normalize("https://w3id.org/edc/v0.0.1/ns/finalized"))
	assert.Equal(t, "REQUESTED", poll.Normalize(" requested "))
}

func TestClassifyUnknownContinues(t *testing.T) {
	assert.Equal(t, poll.Continue, table.Classify("SOMETHING_NEW"))
	assert.Equal(t, poll.Succeeded, table.Classify("edc:FINALIZED"))
	assert.Equal(t, poll.Failed, table.Classify("terminated"))
}

func TestRunStopsOnSuccess(t *testing.T) {
	states := []string{"REQUESTED", "AGREED", "FINALIZED"}
	p := poll.New(poll.Policy{Interval: time.Millisecond, Timeout: time.Second}, nil)

	got, stats, err := poll.Run(context.Background(), p, func(_ context.Context, attempt int) (poll.Outcome, string, string, error) {
		s := states[attempt-1]
		return table.Classify(s), s, "agreement-" + s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "agreement-FINALIZED", got)
	assert.Equal(t, 3, stats.Attempts)
	assert.Equal(t, "FINALIZED", stats.LastState)
}

func TestRunStopsOnFailure(t *testing.T) {
	p := poll.New(poll.Policy{Interval: time.Hour, Timeout: 2 * time.Hour}, nil)

	_, stats, err := poll.Run(context.Background(), p, func(context.Context, int) (poll.Outcome, string, struct{}, error) {
		return table.Classify("TERMINATED"), "TERMINATED", struct{}{}, nil
	})
	require.ErrorIs(t, err, poll.ErrFailed)
	assert.Equal(t, 1, stats.Attempts)
}

func TestRunProbeErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	p := poll.New(poll.Policy{Interval: time.Millisecond, Timeout: time.Second}, nil)

	_, stats, err := poll.Run(context.Background(), p, func(context.Context, int) (poll.Outcome, string, int, error) {
		return poll.Continue, "", 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stats.Attempts)
}

func TestRunTimeoutAttempts(t *testing.T) {
	interval := 20 * time.Millisecond
	timeout := 100 * time.Millisecond
	p := poll.New(poll.Policy{Interval: interval, Timeout: timeout}, nil)

	_, stats, err := poll.Run(context.Background(), p, func(context.Context, int) (poll.Outcome, string, int, error) {
		return poll.Continue, "REQUESTED", 0, nil
	})
	require.ErrorIs(t, err, poll.ErrTimeout)
	assert.InDelta(t, int(timeout/interval), stats.Attempts, 1)
	assert.Equal(t, "REQUESTED", stats.LastState)
}

func TestRunTimeoutOnMockClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Now())
	p := poll.New(poll.Policy{Interval: time.Second, Timeout: 10 * time.Second}, mock)

	// a single slow probe consumes the whole budget
	_, stats, err := poll.Run(context.Background(), p, func(context.Context, int) (poll.Outcome, string, int, error) {
		mock.Add(11 * time.Second)
		return poll.Continue, "REQUESTED", 0, nil
	})
	require.ErrorIs(t, err, poll.ErrTimeout)
	assert.Equal(t, 1, stats.Attempts)
	assert.Equal(t, 11*time.Second, stats.Elapsed)
}

func TestRunCancelledBetweenPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := poll.New(poll.Policy{Interval: time.Hour, Timeout: 10 * time.Hour}, nil)

	_, stats, err := poll.Run(ctx, p, func(context.Context, int) (poll.Outcome, string, int, error) {
		cancel()
		return poll.Continue, "REQUESTED", 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Attempts)
}

func TestRunBoundsAttemptInFlight(t *testing.T) {
	p := poll.New(poll.Policy{Interval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	_, stats, err := poll.Run(context.Background(), p, func(ctx context.Context, _ int) (poll.Outcome, string, int, error) {
		<-ctx.Done()
		return poll.Continue, "", 0, ctx.Err()
	})
	require.ErrorIs(t, err, poll.ErrTimeout)
	assert.Equal(t, 1, stats.Attempts)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRunParentCancelInFlight(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	p := poll.New(poll.Policy{Interval: time.Hour, Timeout: 10 * time.Hour}, nil)

	_, _, err := poll.Run(ctx, p, func(ctx context.Context, _ int) (poll.Outcome, string, int, error) {
		<-ctx.Done()
		return poll.Continue, "", 0, ctx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, poll.ErrTimeout)
}

func TestRunKeepsLastKnownState(t *testing.T) {
	p := poll.New(poll.Policy{Interval: 5 * time.Millisecond, Timeout: 40 * time.Millisecond}, nil)

	_, stats, err := poll.Run(context.Background(), p, func(ctx context.Context, attempt int) (poll.Outcome, string, int, error) {
		if attempt == 1 {
			return poll.Continue, "REQUESTED", 0, nil
		}
		<-ctx.Done()
		return poll.Continue, "", 0, ctx.Err()
	})
	require.ErrorIs(t, err, poll.ErrTimeout)
	assert.Equal(t, 2, stats.Attempts)
	assert.Equal(t, "REQUESTED", stats.LastState)
}

func TestRunRejectsZeroPolicy(t *testing.T) {
	p := poll.New(poll.Policy{}, nil)
	_, _, err := poll.Run(context.Background(), p, func(context.Context, int) (poll.Outcome, string, int, error) {
		return poll.Succeeded, "", 0, nil
	})
	require.Error(t, err)
}
