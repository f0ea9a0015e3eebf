package fanout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targets(n int) []Target {
	out := make([]Target, n)
	for i := range out {
		out[i] = Target{Alias: string(rune('a' + i))}
	}
	return out
}

func TestDo_MergesAllSuccesses(t *testing.T) {
	ts := targets(5)

	var mu sync.Mutex
	seen := make(map[string]bool)

	failure := Do(context.Background(), ts,
		func(ctx context.Context, t Target) (string, error) {
			return t.Alias + "-ok", nil
		},
		func(t Target, resp string, err error) {
			mu.Lock()
			defer mu.Unlock()
			seen[resp] = true
		},
	)

	assert.Nil(t, failure)
	assert.Len(t, seen, 5)
	for _, tg := range ts {
		assert.True(t, seen[tg.Alias+"-ok"])
	}
}

func TestDo_AwaitsAllEvenAfterFailure(t *testing.T) {
	ts := targets(4)

	var mu sync.Mutex
	completed := 0

	failure := Do(context.Background(), ts,
		func(ctx context.Context, t Target) (string, error) {
			if t.Alias == "b" {
				return "", errors.New("boom")
			}
			return "ok", nil
		},
		func(t Target, resp string, err error) {
			mu.Lock()
			defer mu.Unlock()
			completed++
		},
	)

	require.NotNil(t, failure)
	assert.Equal(t, "b", failure.Alias)
	assert.Equal(t, 4, completed)
}

func TestDo_RetainsFirstFailureOnly(t *testing.T) {
	ts := targets(3)

	failure := Do(context.Background(), ts,
		func(ctx context.Context, t Target) (string, error) {
			return "", errors.New(t.Alias + " failed")
		},
		nil,
	)

	require.NotNil(t, failure)
	assert.Contains(t, []string{"a", "b", "c"}, failure.Alias)
}

func TestDo_EmptyTargets(t *testing.T) {
	failure := Do(context.Background(), nil,
		func(ctx context.Context, t Target) (string, error) { return "", nil },
		nil,
	)
	assert.Nil(t, failure)
}
