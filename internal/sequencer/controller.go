// Package sequencer implements the sequence controller and per-test
// driver of sections 4.2-4.4: the single-sequence interlock with
// preemption, the Configure/Introduce/RunTraffic/CancelTraffic fan-out
// phases, and the RPC server that exposes both control operations.
package sequencer

import (
	"context"
	"sync"

	"github.com/dbench/sequencer/internal/fanout"
	"github.com/dbench/sequencer/internal/placer"
	"github.com/dbench/sequencer/internal/registry"
	"github.com/dbench/sequencer/internal/seqerr"
	"github.com/dbench/sequencer/pb"
	log "github.com/sirupsen/logrus"
)

// AuditSink receives a completed TestSequenceResults for optional,
// purely additive historical recording. A nil sink disables auditing.
type AuditSink interface {
	Record(results *pb.TestSequenceResults) error
}

// Controller owns the registry and drives RunTestSequence's preemption
// protocol and per-test loop.
type Controller struct {
	registry *registry.Registry
	audit    AuditSink
}

func NewController(reg *registry.Registry, audit AuditSink) *Controller {
	return &Controller{registry: reg, audit: audit}
}

// RegisterNode delegates straight to the registry; it exists on
// Controller so cmd/sequencerd only has to hold one object.
func (c *Controller) RegisterNode(reg *pb.NodeRegistration) (*pb.NodeConfig, error) {
	return c.registry.RegisterNode(reg)
}

// RunTestSequence implements section 4.2's preemption protocol and
// per-sequence loop.
func (c *Controller) RunTestSequence(ctx context.Context, req *pb.TestSequence) (*pb.TestSequenceResults, error) {
	// Step 1: best-effort broadcast cancel, unconditionally, before
	// this sequence even tries to acquire the controller lock. No
	// failure here aborts the new sequence (see DESIGN.md's open
	// question resolution).
	c.broadcastCancelTraffic(context.Background())

	seqCtx, release := c.registry.Preempt(ctx)
	defer release()

	results := &pb.TestSequenceResults{}
	for _, desc := range req.Tests {
		select {
		case <-seqCtx.Done():
			return nil, seqerr.Abortedf("test sequence preempted by a newer request")
		default:
		}

		result, err := c.doRunTest(seqCtx, desc)
		if err != nil {
			return nil, seqerr.Abortedf("%s", err.Error())
		}
		results.Results = append(results.Results, result)
	}

	if c.audit != nil {
		if err := c.audit.Record(results); err != nil {
			log.Warnf("[RunTestSequence] failed to record audit entry: %v", err)
		}
	}
	return results, nil
}

// doRunTest places one distributed system description and drives the
// three phases in strict sequence, per section 4.3.
func (c *Controller) doRunTest(ctx context.Context, desc *pb.DistributedSystemDescription) (*pb.TestResult, error) {
	idleNodes := c.registry.Snapshot()
	placement, err := placer.Place(idleNodes, desc)
	if err != nil {
		return nil, err
	}

	endpoints, err := c.configureNodes(ctx, placement, desc)
	if err != nil {
		return nil, err
	}
	if err := c.introducePeers(ctx, placement, endpoints); err != nil {
		return nil, err
	}
	logs, err := c.runTraffic(ctx, placement)
	if err != nil {
		return nil, err
	}

	return &pb.TestResult{
		Description: desc,
		Placement:   endpoints,
		Logs:        logs,
	}, nil
}

func (c *Controller) targetsFor(aliases []string) ([]fanout.Target, error) {
	targets := make([]fanout.Target, 0, len(aliases))
	for _, alias := range aliases {
		n, ok := c.registry.FindNode(alias)
		if !ok {
			return nil, seqerr.NotFoundf("node %s not found", alias)
		}
		targets = append(targets, fanout.Target{Alias: alias, Stub: n.Stub})
	}
	return targets, nil
}

// configureNodes implements the Configure phase: each selected node
// gets the full description plus only the service instances it must
// run, and partial ServiceEndpointMap responses are merged by key
// union.
func (c *Controller) configureNodes(ctx context.Context, placement placer.Placement, desc *pb.DistributedSystemDescription) (*pb.ServiceEndpointMap, error) {
	targets, err := c.targetsFor(placement.Aliases())
	if err != nil {
		return nil, err
	}

	merged := &pb.ServiceEndpointMap{Entries: make(map[string]*pb.ServiceEndpoints)}
	var mu sync.Mutex

	failure := fanout.Do(ctx, targets,
		func(ctx context.Context, t fanout.Target) (*pb.ConfigureResponse, error) {
			return t.Stub.ConfigureNodes(ctx, &pb.ConfigureRequest{
				Description: desc,
				Services:    placement[t.Alias],
			})
		},
		func(t fanout.Target, resp *pb.ConfigureResponse, err error) {
			if err != nil || resp == nil || resp.Endpoints == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for svc, eps := range resp.Endpoints.Entries {
				if _, dup := merged.Entries[svc]; dup {
					log.Warnf("[ConfigureNodes] duplicate service instance key %s during merge", svc)
				}
				merged.Entries[svc] = eps
			}
		},
	)
	if failure != nil {
		return nil, seqerr.InvalidArgumentf("Unknown RPC error: node %s: %v", failure.Alias, failure.Err)
	}
	return merged, nil
}

// introducePeers implements the Introduce phase: broadcast the
// fully-merged endpoint map, acknowledgement only, no accumulator.
func (c *Controller) introducePeers(ctx context.Context, placement placer.Placement, endpoints *pb.ServiceEndpointMap) error {
	targets, err := c.targetsFor(placement.Aliases())
	if err != nil {
		return err
	}

	failure := fanout.Do(ctx, targets,
		func(ctx context.Context, t fanout.Target) (*pb.IntroduceResponse, error) {
			return t.Stub.IntroducePeers(ctx, &pb.IntroduceRequest{Endpoints: endpoints})
		},
		nil,
	)
	if failure != nil {
		return seqerr.InvalidArgumentf("Unknown RPC error: node %s: %v", failure.Alias, failure.Err)
	}
	return nil
}

// runTraffic implements the RunTraffic phase: targeted nodes are
// marked busy before dispatch and idle again on every completion,
// success or failure, so the registry's idle state always reflects
// actual workload presence.
func (c *Controller) runTraffic(ctx context.Context, placement placer.Placement) (*pb.ServiceLogs, error) {
	targets, err := c.targetsFor(placement.Aliases())
	if err != nil {
		return nil, err
	}

	for _, t := range targets {
		c.registry.SetIdle(t.Alias, false)
	}

	merged := &pb.ServiceLogs{Entries: make(map[string]string)}
	var mu sync.Mutex

	failure := fanout.Do(ctx, targets,
		func(ctx context.Context, t fanout.Target) (*pb.RunTrafficResponse, error) {
			return t.Stub.RunTraffic(ctx, &pb.RunTrafficRequest{})
		},
		func(t fanout.Target, resp *pb.RunTrafficResponse, err error) {
			c.registry.SetIdle(t.Alias, true)
			if err != nil || resp == nil || resp.Logs == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for svc, text := range resp.Logs.Entries {
				merged.Entries[svc] = text
			}
		},
	)
	if failure != nil {
		return nil, seqerr.InvalidArgumentf("Unknown RPC error: node %s: %v", failure.Alias, failure.Err)
	}
	return merged, nil
}

// broadcastCancelTraffic implements the emergency CancelTraffic
// fan-out of section 4.4: every currently non-idle node gets a
// CancelTraffic RPC. Failures are logged, never surfaced, and never
// abort the sequence that triggered the broadcast.
func (c *Controller) broadcastCancelTraffic(ctx context.Context) {
	aliases := c.registry.NonIdleAliases()
	if len(aliases) == 0 {
		return
	}
	targets, err := c.targetsFor(aliases)
	if err != nil {
		log.Warnf("[CancelTraffic] %v", err)
		return
	}

	fanout.Do(ctx, targets,
		func(ctx context.Context, t fanout.Target) (*pb.CancelTrafficResponse, error) {
			return t.Stub.CancelTraffic(ctx, &pb.CancelTrafficRequest{})
		},
		func(t fanout.Target, resp *pb.CancelTrafficResponse, err error) {
			if err != nil {
				log.Warnf("[CancelTraffic] node %s failed to cancel: %v", t.Alias, err)
				return
			}
			c.registry.SetIdle(t.Alias, true)
		},
	)
}
