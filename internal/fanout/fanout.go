// Package fanout implements the one pattern shared by all four RPC
// phases (Configure, Introduce, RunTraffic, CancelTraffic): issue the
// same request to a set of nodes in parallel, wait for every reply,
// merge results into a caller-owned accumulator, and surface the first
// observed failure without ever skipping the others' completion.
//
// This generalizes the per-peer goroutine + completion-channel pattern
// the framework's consensus fan-out (SendPrepareMessage,
// SendAcceptMessage, ...) uses for a fixed message type into one
// generic helper usable for any (request, response) pair.
package fanout

import (
	"context"

	"github.com/dbench/sequencer/internal/nodeclient"
)

// Target is one node selected to receive a phase's RPC.
type Target struct {
	Alias string
	Stub  nodeclient.Stub
}

// Failure records the first non-OK response observed during a fan-out.
type Failure struct {
	Alias string
	Err   error
}

// Do calls issue for every target concurrently, and calls
// onComplete for every reply (success or failure) as it arrives. All
// targets are awaited before Do returns, even once a failure has been
// observed. onComplete is the caller's opportunity to merge a response
// into a shared accumulator, or to flip a node's idle flag; it must do
// its own locking if the accumulator is shared with other goroutines.
func Do[Resp any](
	ctx context.Context,
	targets []Target,
	issue func(ctx context.Context, t Target) (Resp, error),
	onComplete func(t Target, resp Resp, err error),
) *Failure {
	type completion struct {
		t    Target
		resp Resp
		err  error
	}

	ch := make(chan completion, len(targets))
	for _, t := range targets {
		go func(t Target) {
			resp, err := issue(ctx, t)
			ch <- completion{t: t, resp: resp, err: err}
		}(t)
	}

	var failure *Failure
	for range targets {
		c := <-ch
		if onComplete != nil {
			onComplete(c.t, c.resp, c.err)
		}
		if c.err != nil && failure == nil {
			failure = &Failure{Alias: c.t.Alias, Err: c.err}
		}
	}
	return failure
}
