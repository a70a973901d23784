package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// ObjectStore is the file-storage surface the handlers depend on.
// Implemented by S3Service and by MemoryObjectStore in tests.
type ObjectStore interface {
	// Put stores the file under prefix and returns the object key.
	Put(ctx context.Context, prefix, originalFilename string, body io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) (body io.ReadCloser, contentType string, err error)
	Delete(ctx context.Context, key string) error
	// PresignedGetURL returns a temporary download URL for the object.
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration, responseFilename string) (string, error)
}

// MemoryObjectStore keeps objects in a map. Used by tests and when the
// server runs without S3 configuration.
type MemoryObjectStore struct {
	mu      sync.Mutex
	next    int
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryObjectStore) Put(ctx context.Context, prefix, originalFilename string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	key := fmt.Sprintf("%s%d-%s", prefix, m.next, originalFilename)
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return key, nil
}

func (m *MemoryObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

func (m *MemoryObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryObjectStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration, responseFilename string) (string, error) {
	return "memory://" + key, nil
}

// Len reports the number of stored objects.
func (m *MemoryObjectStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
