package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestLifecycle_InitializeShutdownWait(t *testing.T) {
	lc := New(Options{Addr: "127.0.0.1:0", Server: grpc.NewServer()})

	assert.Nil(t, lc.Addr())
	require.NoError(t, lc.Initialize())
	require.NotNil(t, lc.Addr())

	lc.Shutdown()

	done := make(chan error, 1)
	go func() { done <- lc.Wait() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Shutdown")
	}
}

func TestLifecycle_DoubleInitializeErrors(t *testing.T) {
	lc := New(Options{Addr: "127.0.0.1:0", Server: grpc.NewServer()})
	require.NoError(t, lc.Initialize())
	defer lc.Shutdown()

	require.Error(t, lc.Initialize())
}

func TestLifecycle_ShutdownWithoutInitializeIsSafe(t *testing.T) {
	lc := New(Options{Addr: "127.0.0.1:0", Server: grpc.NewServer()})
	assert.NotPanics(t, func() { lc.Shutdown() })
	assert.NoError(t, lc.Wait())
}
