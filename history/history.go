// Package history persists lookup reports in a local bbolt file so past
// answers can be revisited without hitting provider APIs again.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/search"
)

const (
	bucketRuns = "runs"

	// maxRuns caps the retained reports, oldest pruned first.
	maxRuns = 200
)

// Store keeps lookup reports keyed by start time.
type Store struct {
	db *bolt.DB
}

// DefaultPath returns the history database location next to the config.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends a report and prunes entries beyond the retention cap.
func (s *Store) Save(report *search.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	key := []byte(report.StartedAt.UTC().Format(time.RFC3339Nano))
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRuns))
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("put report: %w", err)
		}
		return prune(bucket)
	})
}

// List returns the most recent reports, newest first. A non-empty ip
// restricts the result to lookups of that address.
func (s *Store) List(limit int, ip string) ([]search.Report, error) {
	if limit <= 0 {
		limit = 10
	}

	var reports []search.Report
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRuns)).Cursor()
		for k, v := c.Last(); k != nil && len(reports) < limit; k, v = c.Prev() {
			var report search.Report
			if err := json.Unmarshal(v, &report); err != nil {
				return fmt.Errorf("decode report %s: %w", k, err)
			}
			if ip != "" && report.IP != ip {
				continue
			}
			reports = append(reports, report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// prune deletes the oldest entries above maxRuns. Keys are RFC3339 start
// times, so a forward cursor walks oldest first.
func prune(bucket *bolt.Bucket) error {
	var keys [][]byte
	c := bucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, k)
	}

	for len(keys) > maxRuns {
		if err := bucket.Delete(keys[0]); err != nil {
			return fmt.Errorf("prune report: %w", err)
		}
		keys = keys[1:]
	}
	return nil
}
