// Package session holds the client's credential store: the bearer token and
// display name, scoped to the API origin they were issued by.
package session

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"alfredoptarigan/cv-screener/internal/repositories"
)

// Keys kept in the store. Absence of TokenKey is the only meaning of
// "not authenticated".
const (
	TokenKey    = "authToken"
	UsernameKey = "username"
)

type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// MemoryStore is a process-local Store. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type persistentStore struct {
	repo   repositories.SessionRepository
	origin string
}

// NewPersistentStore returns a Store backed by repo whose keys only see
// entries written for origin.
func NewPersistentStore(repo repositories.SessionRepository, origin string) Store {
	return &persistentStore{repo: repo, origin: origin}
}

func (s *persistentStore) Get(key string) (string, bool, error) {
	return s.repo.Get(s.origin, key)
}

func (s *persistentStore) Set(key, value string) error {
	return s.repo.Upsert(s.origin, key, value)
}

func (s *persistentStore) Delete(keys ...string) error {
	return s.repo.Delete(s.origin, keys...)
}

// Origin reduces a base URL to scheme://host[:port], lower-cased.
func Origin(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}
