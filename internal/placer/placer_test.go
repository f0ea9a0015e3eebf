package placer

import (
	"testing"

	"github.com/dbench/sequencer/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(services []*pb.ServiceSpec, bundles []*pb.NodeServiceBundle) *pb.DistributedSystemDescription {
	return &pb.DistributedSystemDescription{Services: services, NodeServiceBundles: bundles}
}

func TestPlace_ZeroServices_InvalidArgument(t *testing.T) {
	_, err := Place([]string{"node0"}, desc(nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no services")
}

func TestPlace_AutoPlacement_Deterministic(t *testing.T) {
	idle := []string{"node2", "node0", "node1"}
	d := desc([]*pb.ServiceSpec{{ServerType: "A", Count: 2}}, nil)

	placement, err := Place(idle, d)
	require.NoError(t, err)

	assert.Equal(t, []string{"A/0"}, placement["node0"])
	assert.Equal(t, []string{"A/1"}, placement["node1"])
	assert.Contains(t, placement, "node2")
	assert.Empty(t, placement["node2"])

	assert.ElementsMatch(t, []string{"A/0", "A/1"}, placement.FlattenedServices())
}

func TestPlace_InsufficientIdleNodes_NotFound(t *testing.T) {
	idle := []string{"node0", "node1"}
	d := desc([]*pb.ServiceSpec{{ServerType: "A", Count: 3}}, nil)

	_, err := Place(idle, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A/2")
}

func TestPlace_PrePlacement_HonoredBeforeAutoPlace(t *testing.T) {
	idle := []string{"node0", "node1", "node2"}
	d := desc(
		[]*pb.ServiceSpec{{ServerType: "A", Count: 2}},
		[]*pb.NodeServiceBundle{{Alias: "node2", Services: []string{"A/1"}}},
	)

	placement, err := Place(idle, d)
	require.NoError(t, err)

	assert.Equal(t, []string{"A/1"}, placement["node2"])
	assert.Equal(t, []string{"A/0"}, placement["node0"])
	assert.Contains(t, placement, "node1")
	assert.Empty(t, placement["node1"])
}

func TestPlace_PrePlacement_DuplicateService_NotFound(t *testing.T) {
	idle := []string{"node0", "node1"}
	d := desc(
		[]*pb.ServiceSpec{{ServerType: "A", Count: 1}},
		[]*pb.NodeServiceBundle{{Alias: "node0", Services: []string{"A/0", "A/0"}}},
	)

	_, err := Place(idle, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not found or already placed")
}

func TestPlace_PrePlacement_UnknownNode_NotFound(t *testing.T) {
	idle := []string{"node0"}
	d := desc(
		[]*pb.ServiceSpec{{ServerType: "A", Count: 1}},
		[]*pb.NodeServiceBundle{{Alias: "node9", Services: []string{"A/0"}}},
	)

	_, err := Place(idle, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or not idle")
}

func TestPlace_PrePlacement_NonIdleNode_NotFound(t *testing.T) {
	// node0 is pinned twice across two bundles: the second bundle finds
	// node0 already removed from idle_nodes.
	idle := []string{"node0"}
	d := desc(
		[]*pb.ServiceSpec{{ServerType: "A", Count: 2}},
		[]*pb.NodeServiceBundle{
			{Alias: "node0", Services: []string{"A/0"}},
			{Alias: "node0", Services: []string{"A/1"}},
		},
	)

	_, err := Place(idle, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or not idle")
}

func TestPlace_EveryIdleAliasAppearsInPlacement(t *testing.T) {
	idle := []string{"node0", "node1", "node2", "node3"}
	d := desc([]*pb.ServiceSpec{{ServerType: "A", Count: 1}}, nil)

	placement, err := Place(idle, d)
	require.NoError(t, err)
	assert.Len(t, placement, 4)
	for _, alias := range idle {
		assert.Contains(t, placement, alias)
	}
}
