// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

package hostsim

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Job is one independent VM execution request: a program and its accounts,
// run against a fresh Host instance since a single VM instance shares
// nothing mutable with another. ID correlates a job's log lines and trace
// output across a concurrent batch; it carries no protocol meaning.
type Job struct {
	ID        uuid.UUID
	Program   []byte
	Accounts  []uint32
	ProgramID [32]byte
	Run       func(ctx context.Context) error
}

// NewJob returns a Job with a fresh correlation ID assigned.
func NewJob(program []byte, accounts []uint32, programID [32]byte, run func(ctx context.Context) error) Job {
	return Job{ID: uuid.New(), Program: program, Accounts: accounts, ProgramID: programID, Run: run}
}

// RunConcurrent runs every job's Run function concurrently and returns the
// first error encountered, cancelling the rest via ctx, exactly as a runtime
// scheduling many VM instances with nothing shared between them would.
func RunConcurrent(ctx context.Context, jobs []Job) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error { return j.Run(ctx) })
	}
	return g.Wait()
}

// Throttle bounds how often new VM executions may be admitted, independent
// of gas metering: gas bounds a single execution's work, Throttle bounds how
// many executions per second the simulator admits at all.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows up to ratePerSec admissions per second, with burst as
// the initial allowance.
func NewThrottle(ratePerSec float64, burst int) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}
}

// Admit blocks until an execution slot is available or ctx is done.
func (t *Throttle) Admit(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
