package sequencer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dbench/sequencer/internal/nodesim"
	"github.com/dbench/sequencer/internal/registry"
	"github.com/dbench/sequencer/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestController wires a Controller against n simulated node
// managers and returns a map from the alias the registry assigned each
// one to its simulated node, so tests can inject failures or inspect
// what a worker observed.
func newTestController(t *testing.T, n int) (*Controller, map[string]*nodesim.Node) {
	t.Helper()
	fleet := nodesim.NewFleet()
	reg := registry.New(fleet.Dial)

	nodes := make(map[string]*nodesim.Node, n)
	for i := 0; i < n; i++ {
		host := string(rune('a' + i))
		sim := fleet.Add(host, 7000, host+":7000")
		cfg, err := reg.RegisterNode(&pb.NodeRegistration{Hostname: host, ControlPort: 7000})
		require.NoError(t, err)
		nodes[cfg.NodeAlias] = sim
	}

	return NewController(reg, nil), nodes
}

func TestRunTestSequence_PlacesConfiguresAndRuns(t *testing.T) {
	c, nodes := newTestController(t, 3)
	require.Len(t, nodes, 3)

	req := &pb.TestSequence{
		Tests: []*pb.DistributedSystemDescription{
			{Services: []*pb.ServiceSpec{{ServerType: "A", Count: 2}}},
		},
	}

	results, err := c.RunTestSequence(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)

	result := results.Results[0]
	assert.ElementsMatch(t, []string{"A/0", "A/1"}, keysOf(result.Placement))
}

func TestRunTestSequence_ConfigureFailureAbortsBeforeLaterPhases(t *testing.T) {
	c, nodes := newTestController(t, 2)
	require.Len(t, nodes, 2)

	for _, sim := range nodes {
		sim.FailConfigure = true
		break
	}

	req := &pb.TestSequence{
		Tests: []*pb.DistributedSystemDescription{
			{Services: []*pb.ServiceSpec{{ServerType: "A", Count: 2}}},
		},
	}

	_, err := c.RunTestSequence(context.Background(), req)
	require.Error(t, err)

	for _, sim := range nodes {
		assert.Equal(t, 0, sim.RanTraffic())
		assert.Nil(t, sim.Introduced())
	}
}

func TestRunTestSequence_PreemptionAbortsPriorSequence(t *testing.T) {
	c, nodes := newTestController(t, 2)
	require.Len(t, nodes, 2)

	for _, sim := range nodes {
		sim.RunTrafficDelay = 75 * time.Millisecond
	}

	blockingReq := &pb.TestSequence{
		Tests: []*pb.DistributedSystemDescription{
			{Services: []*pb.ServiceSpec{{ServerType: "A", Count: 1}}},
			{Services: []*pb.ServiceSpec{{ServerType: "B", Count: 1}}},
		},
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = c.RunTestSequence(context.Background(), blockingReq)
	}()

	// Give the first call a chance to install itself as active before
	// the second one preempts it.
	time.Sleep(20 * time.Millisecond)

	secondReq := &pb.TestSequence{
		Tests: []*pb.DistributedSystemDescription{
			{Services: []*pb.ServiceSpec{{ServerType: "C", Count: 1}}},
		},
	}
	second, err := c.RunTestSequence(context.Background(), secondReq)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)

	wg.Wait()
	require.Error(t, firstErr)
}

func keysOf(m *pb.ServiceEndpointMap) []string {
	var out []string
	for k := range m.Entries {
		out = append(out, k)
	}
	return out
}
