// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

/* ------------ single-line progress on stderr ------------ */

type lineProgress struct {
	mu         sync.Mutex
	out        io.Writer
	label      string
	totalKnown bool
	totalBytes int64
	doneBytes  int64
	spinIdx    int
	lastTick   time.Time
}

var spinner = []rune{'|', '/', '-', '\\'}

func (lp *lineProgress) set(written int64) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.doneBytes = written
	lp.render(false)
}

func (lp *lineProgress) render(force bool) {
	// ~10 updates per second at most
	if !force && time.Since(lp.lastTick) < 100*time.Millisecond {
		return
	}
	lp.lastTick = time.Now()

	if lp.totalKnown && lp.totalBytes > 0 {
		done := min(lp.doneBytes, lp.totalBytes)
		pct := float64(done) / float64(lp.totalBytes) * 100
		fmt.Fprintf(lp.out, "\r%s: %6.2f%% (%s / %s)   ",
			lp.label, pct, humanize.IBytes(uint64(done)), humanize.IBytes(uint64(lp.totalBytes)))
		return
	}
	ch := spinner[lp.spinIdx%len(spinner)]
	lp.spinIdx++
	fmt.Fprintf(lp.out, "\r%s: [%c] %s   ", lp.label, ch, humanize.IBytes(uint64(lp.doneBytes)))
}

func (lp *lineProgress) done(took time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.render(true)
	fmt.Fprintf(lp.out, "in %s\n", took.Truncate(100*time.Millisecond))
}

// NewProgressHook returns a hook rendering a single throttled line on stderr.
// It returns nil when verbose is false, which disables reporting.
func NewProgressHook(label string, verbose bool) *config.ProgressHook {
	if !verbose {
		return nil
	}
	return newProgressHook(os.Stderr, label)
}

func newProgressHook(out io.Writer, label string) *config.ProgressHook {
	lp := &lineProgress{out: out, label: label}
	return &config.ProgressHook{
		OnStart: func(_ string, total int64) {
			lp.mu.Lock()
			lp.totalKnown = total > 0
			lp.totalBytes = total
			lp.mu.Unlock()
		},
		OnProgress: func(_ string, written, _ int64) {
			lp.set(written)
		},
		OnDone: func(_ string, total int64, took time.Duration) {
			lp.mu.Lock()
			if total > lp.doneBytes {
				lp.doneBytes = total
			}
			lp.mu.Unlock()
			lp.done(took)
		},
	}
}

// HumanSize formats a byte count for CLI output.
func HumanSize(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(n))
}
