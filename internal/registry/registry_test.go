package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dbench/sequencer/internal/nodeclient"
	"github.com/dbench/sequencer/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStub is the minimal nodeclient.Stub used to test the registry in
// isolation, without pulling in internal/nodesim.
type fakeStub struct{}

func (fakeStub) ConfigureNodes(context.Context, *pb.ConfigureRequest) (*pb.ConfigureResponse, error) {
	return &pb.ConfigureResponse{}, nil
}
func (fakeStub) IntroducePeers(context.Context, *pb.IntroduceRequest) (*pb.IntroduceResponse, error) {
	return &pb.IntroduceResponse{}, nil
}
func (fakeStub) RunTraffic(context.Context, *pb.RunTrafficRequest) (*pb.RunTrafficResponse, error) {
	return &pb.RunTrafficResponse{}, nil
}
func (fakeStub) CancelTraffic(context.Context, *pb.CancelTrafficRequest) (*pb.CancelTrafficResponse, error) {
	return &pb.CancelTrafficResponse{}, nil
}
func (fakeStub) Close() error { return nil }

func alwaysDial(string) (nodeclient.Stub, error) { return fakeStub{}, nil }

func TestRegisterNode_RejectsInvalidPayload(t *testing.T) {
	r := New(alwaysDial)

	_, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "", ControlPort: 7})
	require.Error(t, err)

	_, err = r.RegisterNode(&pb.NodeRegistration{Hostname: "h1", ControlPort: 0})
	require.Error(t, err)
}

func TestRegisterNode_RepeatedRegistrationReusesAlias(t *testing.T) {
	r := New(alwaysDial)

	cfg1, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "h1", ControlPort: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 0, cfg1.NodeId)
	assert.Equal(t, "node0", cfg1.NodeAlias)

	cfg2, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "h1", ControlPort: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 0, cfg2.NodeId)
	assert.Equal(t, "node0", cfg2.NodeAlias)

	assert.Len(t, r.Snapshot(), 1)
}

func TestRegisterNode_DistinctPayloadsGetDistinctAliases(t *testing.T) {
	r := New(alwaysDial)

	cfg1, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "h1", ControlPort: 7})
	require.NoError(t, err)
	cfg2, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "h2", ControlPort: 7})
	require.NoError(t, err)

	assert.NotEqual(t, cfg1.NodeAlias, cfg2.NodeAlias)
	assert.Equal(t, []string{"node0", "node1"}, r.Snapshot())
}

func TestRegisterNode_StubFailureLeavesRegistryUnmutated(t *testing.T) {
	failDial := func(string) (nodeclient.Stub, error) { return nil, fmt.Errorf("connection refused") }
	r := New(failDial)

	_, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "h1", ControlPort: 7})
	require.Error(t, err)
	assert.Empty(t, r.Snapshot())
}

func TestSetIdle_DefaultsTrue(t *testing.T) {
	r := New(alwaysDial)
	cfg, err := r.RegisterNode(&pb.NodeRegistration{Hostname: "h1", ControlPort: 7})
	require.NoError(t, err)

	n, ok := r.FindNode(cfg.NodeAlias)
	require.True(t, ok)
	assert.True(t, n.Idle)

	r.SetIdle(cfg.NodeAlias, false)
	n, _ = r.FindNode(cfg.NodeAlias)
	assert.False(t, n.Idle)
	assert.Equal(t, []string{cfg.NodeAlias}, r.NonIdleAliases())
}

func TestPreempt_CancelsPriorAndWaits(t *testing.T) {
	r := New(alwaysDial)

	priorCtx, priorRelease := r.Preempt(context.Background())

	var priorCancelled bool
	done := make(chan struct{})
	go func() {
		<-priorCtx.Done()
		priorCancelled = true
		priorRelease()
		close(done)
	}()

	// New caller preempts; its Preempt call must block until priorRelease runs.
	newCtx, newRelease := r.Preempt(context.Background())
	defer newRelease()

	<-done
	assert.True(t, priorCancelled)
	assert.NoError(t, newCtx.Err())
}

func TestPreempt_SerializesManyWaiters(t *testing.T) {
	r := New(alwaysDial)

	const n = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var order []int

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, release := r.Preempt(context.Background())
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			<-ctx.Done()
			release()
		}(i)
	}

	// The very last Preempt call to land never gets cancelled by anyone
	// else, so force progress by preempting one final time and releasing
	// immediately.
	time.Sleep(50 * time.Millisecond)
	ctx, release := r.Preempt(context.Background())
	_ = ctx
	release()

	wg.Wait()
	assert.Len(t, order, n)
}
