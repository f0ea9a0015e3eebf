// Package nodesim is a test-only, in-memory implementation of the
// NodeManager surface the sequencer dials out to. Real node managers
// are out of scope for this repository (see SPEC_FULL.md's Non-goals);
// nodesim exists purely so internal/registry, internal/fanout, and
// internal/sequencer can be tested without a real worker fleet, in the
// spirit of the retrieval pack's mock/fake collaborators (e.g.
// adammck-ranger's mock_actuator, torua's in-memory node fakes).
package nodesim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbench/sequencer/internal/nodeclient"
	"github.com/dbench/sequencer/pb"
)

// Node is one simulated worker. Every RPC method can be told to fail,
// so tests can exercise the framework's partial-failure paths.
type Node struct {
	mu sync.Mutex

	Endpoint string

	FailConfigure     bool
	FailIntroduce     bool
	FailRunTraffic    bool
	FailCancelTraffic bool

	// RunTrafficDelay, if set, is slept through before RunTraffic
	// returns, without holding the node's lock. Tests use it to widen
	// the window in which a sequence is observably still in its body.
	RunTrafficDelay time.Duration

	configuredServices []string
	introduced         *pb.ServiceEndpointMap
	idle               bool
	runCount           int
}

var _ nodeclient.Stub = (*Node)(nil)

func NewNode(endpoint string) *Node {
	return &Node{Endpoint: endpoint, idle: true}
}

func (n *Node) ConfigureNodes(ctx context.Context, req *pb.ConfigureRequest) (*pb.ConfigureResponse, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailConfigure {
		return nil, fmt.Errorf("simulated Configure failure")
	}
	n.configuredServices = append([]string(nil), req.Services...)
	entries := make(map[string]*pb.ServiceEndpoints, len(req.Services))
	for _, svc := range req.Services {
		entries[svc] = &pb.ServiceEndpoints{Endpoints: []string{fmt.Sprintf("%s/%s", n.Endpoint, svc)}}
	}
	return &pb.ConfigureResponse{Endpoints: &pb.ServiceEndpointMap{Entries: entries}}, nil
}

func (n *Node) IntroducePeers(ctx context.Context, req *pb.IntroduceRequest) (*pb.IntroduceResponse, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailIntroduce {
		return nil, fmt.Errorf("simulated Introduce failure")
	}
	n.introduced = req.Endpoints
	return &pb.IntroduceResponse{}, nil
}

func (n *Node) RunTraffic(ctx context.Context, req *pb.RunTrafficRequest) (*pb.RunTrafficResponse, error) {
	n.mu.Lock()
	delay := n.RunTrafficDelay
	n.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.runCount++
	if n.FailRunTraffic {
		return nil, fmt.Errorf("simulated RunTraffic failure")
	}
	entries := make(map[string]string, len(n.configuredServices))
	for _, svc := range n.configuredServices {
		entries[svc] = fmt.Sprintf("%s ran traffic for %s (run #%d)", n.Endpoint, svc, n.runCount)
	}
	return &pb.RunTrafficResponse{Logs: &pb.ServiceLogs{Entries: entries}}, nil
}

func (n *Node) CancelTraffic(ctx context.Context, req *pb.CancelTrafficRequest) (*pb.CancelTrafficResponse, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailCancelTraffic {
		return nil, fmt.Errorf("simulated CancelTraffic failure")
	}
	return &pb.CancelTrafficResponse{}, nil
}

func (n *Node) Close() error { return nil }

// RanTraffic reports how many times RunTraffic was invoked, so tests
// can assert that a failed phase skipped later phases entirely.
func (n *Node) RanTraffic() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.runCount
}

// Introduced reports the endpoint map this node was last introduced
// to, or nil if IntroducePeers was never called.
func (n *Node) Introduced() *pb.ServiceEndpointMap {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.introduced
}

// Fleet is a collection of simulated node managers keyed by the dial
// target the registry would build for them (dns:///host:port), so it
// can be used directly as a registry.Dialer.
type Fleet struct {
	mu    sync.Mutex
	nodes map[string]*Node
}

func NewFleet() *Fleet {
	return &Fleet{nodes: make(map[string]*Node)}
}

// Add registers a simulated node manager at hostname:port and returns
// it so the test can configure failure behavior or inspect state.
func (f *Fleet) Add(hostname string, port int32, endpoint string) *Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := NewNode(endpoint)
	f.nodes[target(hostname, port)] = n
	return n
}

func target(hostname string, port int32) string {
	return fmt.Sprintf("dns:///%s:%d", hostname, port)
}

// Dial implements registry.Dialer against this fleet. Unknown targets
// fail, simulating a node manager that refused the connection.
func (f *Fleet) Dial(t string) (nodeclient.Stub, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[t]
	if !ok {
		return nil, fmt.Errorf("nodesim: no simulated node manager at %s", t)
	}
	return n, nil
}
