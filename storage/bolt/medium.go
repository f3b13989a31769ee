package bolt

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/masomo-lms/core"
)

var bucket = []byte("Records")

// Medium stores records in a single bbolt bucket.
type Medium struct {
	db *bbolt.DB
}

var _ core.Medium = (*Medium)(nil) // interface compliance check

// Open opens (or creates) the DB file at path.
func Open(path string) (*Medium, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening bolt db")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &Medium{db: db}, nil
}

func (m *Medium) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := m.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return core.ErrKeyNotFound
		}
		// v is only valid during the tx
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	return out, err
}

func (m *Medium) Put(_ context.Context, key string, value []byte) error {
	err := m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
	if errors.Is(err, syscall.ENOSPC) {
		return core.ErrStorageFull
	}
	return err
}

func (m *Medium) Delete(_ context.Context, key string) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

func (m *Medium) Close() error {
	return m.db.Close()
}
