// Package registry tracks every worker node the sequencer currently
// knows about, plus the single active-sequence handle, both guarded by
// one coarse-grained mutex as required by the framework's concurrency
// model: RegisterNode and sequence preemption take the write lock;
// fan-out phases take the read lock while scanning the placement and
// toggling per-node idle flags.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dbench/sequencer/internal/nodeclient"
	"github.com/dbench/sequencer/internal/seqerr"
	"github.com/dbench/sequencer/internal/utils"
	"github.com/dbench/sequencer/pb"
	log "github.com/sirupsen/logrus"
)

// Node is one worker the sequencer can dispatch RPCs to. It is mutated
// only by the Registry, under its lock.
type Node struct {
	Alias        string
	Registration *pb.NodeRegistration
	Stub         nodeclient.Stub
	Idle         bool
}

// Dialer builds a Stub for a worker's control-plane target. Production
// code uses nodeclient.Dial; tests substitute internal/nodesim.
type Dialer func(target string) (nodeclient.Stub, error)

type activeSequence struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Registry is the mapping alias -> Node plus the registration-dedup map
// and the active-sequence handle described in the framework's data
// model (sections 3 and 5).
type Registry struct {
	mu sync.RWMutex

	nodes           map[string]*Node
	registrationIDs map[string]int64

	active *activeSequence

	dial Dialer
}

// New creates an empty Registry that dials worker stubs with dial.
func New(dial Dialer) *Registry {
	return &Registry{
		nodes:           make(map[string]*Node),
		registrationIDs: make(map[string]int64),
		dial:            dial,
	}
}

// canonicalKey serializes a NodeRegistration into the same string for
// any two payloads that are field-for-field identical, so repeated
// registrations are recognized regardless of map iteration order.
func canonicalKey(reg *pb.NodeRegistration) string {
	tagKeys := make([]string, 0, len(reg.Tags))
	for k := range reg.Tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Strings(tagKeys)
	var b strings.Builder
	fmt.Fprintf(&b, "hostname=%s;control_port=%d;tags=", reg.Hostname, reg.ControlPort)
	for _, k := range tagKeys {
		fmt.Fprintf(&b, "%s=%s,", k, reg.Tags[k])
	}
	return b.String()
}

// RegisterNode implements section 4.1: idempotent re-registration,
// dial-then-insert ordering so a stub failure never mutates the
// registry, and alias allocation from the registry's current size.
func (r *Registry) RegisterNode(reg *pb.NodeRegistration) (*pb.NodeConfig, error) {
	if reg.GetHostname() == "" || reg.GetControlPort() <= 0 {
		return nil, seqerr.InvalidArgumentf("invalid registration: hostname and control_port are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := canonicalKey(reg)
	id, seen := r.registrationIDs[key]
	if !seen {
		id = int64(len(r.nodes))
	}
	alias := fmt.Sprintf("node%d", id)
	target := fmt.Sprintf("dns:///%s:%d", reg.Hostname, reg.ControlPort)

	stub, err := r.dial(target)
	if err != nil {
		log.Warnf("[Registry] could not create stub for %s: %v", target, err)
		return nil, seqerr.Unknownf("could not create node stub")
	}

	r.registrationIDs[key] = id
	r.nodes[alias] = &Node{
		Alias:        alias,
		Registration: reg,
		Stub:         stub,
		Idle:         true,
	}
	if seen {
		log.Infof("[Registry] repeated registration for %s @ %s", alias, target)
	} else {
		log.Infof("[Registry] registered %s @ %s", alias, target)
	}
	return &pb.NodeConfig{NodeId: id, NodeAlias: alias}, nil
}

// FindNode looks up a node by alias under the shared lock.
func (r *Registry) FindNode(alias string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[alias]
	return n, ok
}

// ForEachNode calls fn for every currently-registered node, in sorted
// alias order, under the shared lock.
func (r *Registry) ForEachNode(fn func(*Node)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, alias := range r.sortedAliasesLocked() {
		fn(r.nodes[alias])
	}
}

// Snapshot returns every currently-known alias, sorted, matching the
// placer's requirement for deterministic iteration order.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedAliasesLocked()
}

// NonIdleAliases returns, sorted, the aliases of every node currently
// marked non-idle — the selection CancelTraffic broadcasts against.
func (r *Registry) NonIdleAliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, alias := range r.sortedAliasesLocked() {
		if !r.nodes[alias].Idle {
			out = append(out, alias)
		}
	}
	return out
}

func (r *Registry) sortedAliasesLocked() []string {
	aliases := utils.Keys(r.nodes)
	sort.Strings(aliases)
	return aliases
}

// SetIdle mutates a single node's idle flag under the shared lock. This
// mirrors the framework's deliberate relaxed-write discipline (section
// 9, "Shared vs exclusive locking of idle"): it is race-free in
// practice only because orchestration guarantees at most one fan-out
// phase ever touches a given node's idle flag at a time.
func (r *Registry) SetIdle(alias string, idle bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.nodes[alias]; ok {
		n.Idle = idle
	}
}

// Preempt implements the preemption protocol of section 4.2: cancel any
// prior sequence, wait for it to finish, re-check (another caller may
// have since installed its own), then install this caller's handle.
// The returned context is cancelled the moment a newer RunTestSequence
// call preempts this one; release must be deferred by the caller to
// broadcast completion and clear the handle.
func (r *Registry) Preempt(parent context.Context) (context.Context, func()) {
	r.mu.Lock()
	for r.active != nil {
		prior := r.active
		prior.cancel()
		r.mu.Unlock()
		<-prior.done
		r.mu.Lock()
	}

	ctx, cancel := context.WithCancel(parent)
	mine := &activeSequence{cancel: cancel, done: make(chan struct{})}
	r.active = mine
	r.mu.Unlock()

	release := func() {
		close(mine.done)
		r.mu.Lock()
		if r.active == mine {
			r.active = nil
		}
		r.mu.Unlock()
	}
	return ctx, release
}
