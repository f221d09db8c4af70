// Package diskcache persists the "default job" recollection (DefaultJob)
// so a restarted service recalls the last job a client configured instead
// of reverting to a hardcoded placeholder. It persists to a
// go.etcd.io/bbolt database: one bucket, JSON values, a single well-known
// key for the one record this service keeps.
package diskcache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	bolt "go.etcd.io/bbolt"

	"github.com/ssgier/momonc-service/internal/algo"
	"github.com/ssgier/momonc-service/internal/domain"
)

var bucketDefaultJob = []byte("default_job")

const defaultJobKey = "current"

// Store persists the DefaultJob singleton in a bbolt database.
type Store struct {
	db *bolt.DB
	mu sync.Mutex
}

// Open opens (creating if absent) the bbolt database at path and ensures its
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open disk cache at %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDefaultJob)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create disk cache bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Retrieve returns the persisted DefaultJob, or the built-in seed default if
// nothing has been stored yet.
func (s *Store) Retrieve() domain.DefaultJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	var job domain.DefaultJob
	found := false

	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDefaultJob)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(defaultJobKey))
		if data == nil {
			return nil
		}
		if err := sonic.Unmarshal(data, &job); err != nil {
			return nil
		}
		found = true
		return nil
	})

	if !found {
		return seedDefaultJob()
	}
	return job
}

// Store persists job as the recollection to return from the next Retrieve.
func (s *Store) Store(job domain.DefaultJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sonic.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal default job: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDefaultJob)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketDefaultJob)
		}
		return b.Put([]byte(defaultJobKey), data)
	})
}

// seedDefaultJob builds the built-in placeholder job used before any client
// has ever started a processing job, with paths relative to $HOME.
func seedDefaultJob() domain.DefaultJob {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return domain.DefaultJob{
		ProcessingJobData: domain.ProcessingJobData{
			Program:  "python",
			Args:     []string{filepath.Join(home, "git/momonc-service/scripts/obj_func_mock.py")},
			SpecFile: filepath.Join(home, "git/momonc-service/scripts/spec.json"),
			AlgoConf: algo.Config{
				ParallelHillClimbing: &algo.ParallelHillClimbingConfig{
					RelativeStdDev: 0.01,
					DegreeOfPar:    10,
				},
			},
		},
	}
}
