// Package audit is an optional, purely additive side-effect sink that
// records completed TestSequenceResults for later inspection. It never
// participates in the control path: RegisterNode and RunTestSequence
// behave identically whether or not an audit store is configured.
//
// Modeled on the teacher's bbolt-backed internal/database package
// (single bucket, Update-wrapped writes), repurposed from an account
// ledger to a historical log of test runs.
package audit

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/dbench/sequencer/pb"
	"go.etcd.io/bbolt"
)

const bucketName = "test_sequence_results"

// Record is a flattened, JSON-marshalable projection of one completed
// TestSequenceResults, keyed by a monotonically increasing counter.
type Record struct {
	SequenceID int64        `json:"sequence_id"`
	Tests      []TestRecord `json:"tests"`
}

// TestRecord is the projection of a single TestResult within a
// sequence.
type TestRecord struct {
	Index            int               `json:"index"`
	ServiceInstances []string          `json:"service_instances"`
	LogEntries       map[string]string `json:"log_entries"`
}

// Store is a bbolt-backed append-only log of Records.
type Store struct {
	mu  sync.Mutex
	db  *bbolt.DB
	seq int64
}

// Open creates or opens the audit database at path and ensures its
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	var next int64
	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		if k, _ := b.Cursor().Last(); k != nil {
			next = int64(binary.BigEndian.Uint64(k)) + 1
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, seq: next}, nil
}

func toRecord(id int64, results *pb.TestSequenceResults) Record {
	rec := Record{SequenceID: id}
	for i, result := range results.Results {
		var services []string
		if result.Placement != nil {
			for svc := range result.Placement.Entries {
				services = append(services, svc)
			}
		}
		var logs map[string]string
		if result.Logs != nil {
			logs = result.Logs.Entries
		}
		rec.Tests = append(rec.Tests, TestRecord{
			Index:            i,
			ServiceInstances: services,
			LogEntries:       logs,
		})
	}
	return rec
}

// Record persists one completed TestSequenceResults under the next
// sequence id.
func (s *Store) Record(results *pb.TestSequenceResults) error {
	s.mu.Lock()
	id := s.seq
	s.seq++
	s.mu.Unlock()

	data, err := json.Marshal(toRecord(id, results))
	if err != nil {
		return err
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put(key, data)
	})
}

// All returns every recorded Record, in insertion order, for debugging
// and post-hoc inspection tooling.
func (s *Store) All() ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
