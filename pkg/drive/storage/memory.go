package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// MemoryObjectStore is an in-process ObjectStore for tests. It hands out
// fake URLs and records which keys exist so tests can assert on blob
// lifecycle without an S3 endpoint.
//
// Thread safety: safe for concurrent use.
type MemoryObjectStore struct {
	mu      sync.Mutex
	objects map[string]bool
	deletes []string

	// FailWith, when set, makes every call return this error.
	FailWith error
}

func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{objects: make(map[string]bool)}
}

func (m *MemoryObjectStore) PresignUpload(_ context.Context, key, contentType string, maxSize int64) (*UploadSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return &UploadSlot{
		URL: "https://objects.test/upload",
		Fields: map[string]string{
			"key":          key,
			"Content-Type": contentType,
			"policy":       fmt.Sprintf("content-length-range:0:%d", maxSize),
		},
	}, nil
}

func (m *MemoryObjectStore) PresignDownload(_ context.Context, key, filename string, disposition Disposition) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", m.FailWith
	}
	return fmt.Sprintf("https://objects.test/%s?disposition=%s&filename=%s",
		key, disposition, url.QueryEscape(filename)), nil
}

func (m *MemoryObjectStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.objects, key)
	m.deletes = append(m.deletes, key)
	return nil
}

func (m *MemoryObjectStore) PublicURL(key string) string {
	return "https://objects.test/" + key
}

// Put marks a key as existing, simulating a completed client upload.
func (m *MemoryObjectStore) Put(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = true
}

// Exists reports whether a key currently holds an object.
func (m *MemoryObjectStore) Exists(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key]
}

// Deletes returns the keys Delete has been called with, in order.
func (m *MemoryObjectStore) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.deletes))
	copy(out, m.deletes)
	return out
}

var _ ObjectStore = (*MemoryObjectStore)(nil)
