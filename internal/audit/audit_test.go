package audit

import (
	"path/filepath"
	"testing"

	"github.com/dbench/sequencer/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	results := &pb.TestSequenceResults{
		Results: []*pb.TestResult{
			{
				Placement: &pb.ServiceEndpointMap{Entries: map[string]*pb.ServiceEndpoints{
					"A/0": {Endpoints: []string{"h1:1"}},
				}},
				Logs: &pb.ServiceLogs{Entries: map[string]string{"A/0": "ok"}},
			},
		},
	}

	require.NoError(t, store.Record(results))
	require.NoError(t, store.Record(results))

	recs, err := store.All()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.EqualValues(t, 0, recs[0].SequenceID)
	assert.EqualValues(t, 1, recs[1].SequenceID)
	assert.Equal(t, []string{"A/0"}, recs[0].Tests[0].ServiceInstances)
}
