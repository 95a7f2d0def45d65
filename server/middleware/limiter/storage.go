package limiter

import "sync"

// Storage stores and retrieves token buckets by key.
type Storage interface {
	// GetOrCreate returns the bucket for key, creating it with newBucket
	// when absent.
	GetOrCreate(key string, newBucket func() *TokenBucket) *TokenBucket

	// Delete removes a token bucket for the given key
	Delete(key string)

	// Reset clears all stored token buckets
	Reset()
}

type InMemoryStorage struct {
	buckets map[string]*TokenBucket
	mu      sync.Mutex
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		buckets: make(map[string]*TokenBucket),
	}
}

func (s *InMemoryStorage) GetOrCreate(key string, newBucket func() *TokenBucket) *TokenBucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, exists := s.buckets[key]
	if !exists {
		bucket = newBucket()
		s.buckets[key] = bucket
	}
	return bucket
}

func (s *InMemoryStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buckets, key)
}

func (s *InMemoryStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[string]*TokenBucket)
}
