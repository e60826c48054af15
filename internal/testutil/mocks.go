package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MockGetter mocks the single-attempt HTTP getter. Responses and Errors
// are keyed by URL prefix; the longest matching prefix wins. Unknown URLs
// fail like a 404.
type MockGetter struct {
	Responses map[string][]byte
	Errors    map[string]error

	mu    sync.Mutex
	calls []string
}

// Get mocks an HTTP GET request
func (m *MockGetter) Get(_ context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if key, ok := longestPrefix(m.Errors, url); ok {
		return nil, m.Errors[key]
	}
	if key, ok := longestPrefix(m.Responses, url); ok {
		return m.Responses[key], nil
	}
	return nil, fmt.Errorf("mock: %s returned status 404", url)
}

// Calls returns the requested URLs in order.
func (m *MockGetter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallsWithPrefix counts requests whose URL starts with prefix.
func (m *MockGetter) CallsWithPrefix(prefix string) int {
	n := 0
	for _, c := range m.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func longestPrefix[V any](m map[string]V, url string) (string, bool) {
	best, found := "", false
	for key := range m {
		if strings.HasPrefix(url, key) && len(key) >= len(best) {
			best, found = key, true
		}
	}
	return best, found
}

// MemoryStore is an in-memory media store.
type MemoryStore struct {
	Err error

	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Store records data under filename, or returns Err when set.
func (s *MemoryStore) Store(filename string, data []byte) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[filename] = append([]byte(nil), data...)
	return nil
}

// File returns the stored bytes for filename.
func (s *MemoryStore) File(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[filename]
	return data, ok
}

// Names returns the stored filenames, sorted.
func (s *MemoryStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AudioData returns a minimal MP3 frame header.
func AudioData() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// ImageData returns a minimal JPEG header.
func ImageData() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
}
