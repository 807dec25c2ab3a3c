package artifact

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// InMemoryStore keeps artifacts in process memory, for development and tests.
type InMemoryStore struct {
	mu      sync.Mutex
	objects map[string]Upload
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string]Upload)}
}

func (s *InMemoryStore) Put(_ context.Context, upload Upload) (string, error) {
	key := objectKey(ulid.MustNew(ulid.Now(), rand.Reader).String(), upload.ContentType)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = upload
	return "memory://" + key, nil
}

// Get returns a stored artifact by the URL Put returned. Test helper.
func (s *InMemoryStore) Get(url string) (Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	upload, ok := s.objects[trimScheme(url)]
	return upload, ok
}

// Len reports how many artifacts are stored. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func trimScheme(url string) string {
	const scheme = "memory://"
	if len(url) > len(scheme) && url[:len(scheme)] == scheme {
		return url[len(scheme):]
	}
	return url
}
