package memory

import (
	"context"
	"sync"

	"github.com/trezcool/masomo-lms/core"
)

// Medium keeps records in a map. It is meant for tests and throwaway runs.
type Medium struct {
	mu    sync.RWMutex
	table map[string][]byte
	quota int // total bytes; 0 means unlimited
	size  int
}

var _ core.Medium = (*Medium)(nil) // interface compliance check

// Open returns an empty Medium. quota, if given, caps the total size of the stored records.
func Open(quota ...int) *Medium {
	m := &Medium{table: make(map[string][]byte)}
	if len(quota) > 0 {
		m.quota = quota[0]
	}
	return m
}

func (m *Medium) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *Medium) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newSize := m.size - len(m.table[key]) + len(value)
	if m.quota > 0 && newSize > m.quota {
		return core.ErrStorageFull
	}
	val := make([]byte, len(value))
	copy(val, value)
	m.table[key] = val
	m.size = newSize
	return nil
}

func (m *Medium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.size -= len(m.table[key])
	delete(m.table, key)
	return nil
}

// SetQuota changes the quota; records already stored are kept.
func (m *Medium) SetQuota(quota int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = quota
}

func (m *Medium) Close() error { return nil }
