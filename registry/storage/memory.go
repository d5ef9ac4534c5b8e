package storage

import (
	"context"
	"sync"

	"go.deviceregistry.dev/registry"
)

// MemoryBackend is an in-process [Source]/[Destination] that keeps every
// record in a map keyed by path. It implements both interfaces so it can
// serve as a registry's sole source and destination at once, which makes it
// convenient for tests and for short-lived processes with nothing durable
// to write to.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	typ registry.Type
	raw []byte
}

// NewMemoryBackend creates an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]memoryRecord)}
}

// Load replays every stored record to cb, in no particular order.
func (b *MemoryBackend) Load(_ context.Context, cb LoadFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error

	for path, rec := range b.records {
		if err := cb(path, rec.typ, rec.raw); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Save stores a copy of raw under path, overwriting any previous value.
func (b *MemoryBackend) Save(_ context.Context, path string, typ registry.Type, raw []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := make([]byte, len(raw))
	copy(cp, raw)
	b.records[path] = memoryRecord{typ: typ, raw: cp}

	return nil
}

// Len reports the number of distinct paths currently stored.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.records)
}
