package predictor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"radiosignals/pkg/contracts/domain"
)

// Store loads and caches the trained model artifacts, one per technology.
// Artifacts are parsed lazily on first use; the singleflight group makes
// the load idempotent under concurrent requests, which is the only mutable
// shared state the serving process has.
type Store struct {
	paths    map[domain.Technology]string
	observer LoadObserver

	mu       sync.RWMutex
	models   map[domain.Technology]*Model
	versions map[domain.Technology]string
	group    singleflight.Group
}

// LoadObserver is notified after each artifact parse attempt, successful
// or not. Used to feed model-load metrics without coupling the store to
// the metrics layer.
type LoadObserver func(tech domain.Technology, duration time.Duration, err error)

// NewStore creates a store over the per-technology artifact paths.
func NewStore(digitalPath, fmPath string) *Store {
	return &Store{
		paths: map[domain.Technology]string{
			domain.TechDigital: digitalPath,
			domain.TechFM:      fmPath,
		},
		models:   make(map[domain.Technology]*Model),
		versions: make(map[domain.Technology]string),
	}
}

// OnLoad registers the load observer. Must be called before the store
// serves requests.
func (s *Store) OnLoad(fn LoadObserver) {
	s.observer = fn
}

// VerifyArtifacts checks that every configured artifact file exists. Called
// at service startup: a missing model is fatal, the service must refuse to
// start rather than fail requests later.
func (s *Store) VerifyArtifacts() error {
	for tech, path := range s.paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("model artifact for %s missing at %s: %w", tech, path, err)
		}
	}
	return nil
}

// load returns the cached model for tech, parsing the artifact at most once.
func (s *Store) load(tech domain.Technology) (*Model, error) {
	s.mu.RLock()
	m, ok := s.models[tech]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}

	path, ok := s.paths[tech]
	if !ok {
		return nil, fmt.Errorf("unsupported technology: %s", tech)
	}

	v, err, _ := s.group.Do(string(tech), func() (any, error) {
		s.mu.RLock()
		cached, ok := s.models[tech]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		start := time.Now()
		model, err := LoadModel(path)
		if s.observer != nil {
			s.observer(tech, time.Since(start), err)
		}
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.models[tech] = model
		s.versions[tech] = versionFromPath(path)
		s.mu.Unlock()
		return model, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

// Predict runs the model for the vector's technology and returns the
// estimate together with the model-version identifier.
func (s *Store) Predict(vector *domain.FeatureVector) (float64, string, error) {
	m, err := s.load(vector.Technology)
	if err != nil {
		return 0, "", err
	}
	value, err := m.Predict(vector)
	if err != nil {
		return 0, "", err
	}
	s.mu.RLock()
	version := s.versions[vector.Technology]
	s.mu.RUnlock()
	return value, version, nil
}

// Version returns the model-version identifier for tech, loading the
// artifact if needed.
func (s *Store) Version(tech domain.Technology) (string, error) {
	if _, err := s.load(tech); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[tech], nil
}

// versionFromPath derives the model version from the artifact file name.
func versionFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
