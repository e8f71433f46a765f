package predictor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiosignals/pkg/contracts/domain"
)

func writeArtifact(t *testing.T, dir, name string, leafValue float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	m := &Model{Trees: [][]Node{{leaf(leafValue)}}}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	digital := writeArtifact(t, dir, "best_digital_model.json", 50)
	fm := writeArtifact(t, dir, "best_fm_model.json", 40)
	return NewStore(digital, fm)
}

func TestStoreVerifyArtifacts(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.VerifyArtifacts())

	missing := NewStore(
		filepath.Join(t.TempDir(), "absent_digital.json"),
		filepath.Join(t.TempDir(), "absent_fm.json"))
	require.Error(t, missing.VerifyArtifacts())
}

func TestStorePredict(t *testing.T) {
	s := newTestStore(t)

	value, version, err := s.Predict(&domain.FeatureVector{
		Technology: domain.TechDigital,
		Features:   map[string]any{},
	})
	require.NoError(t, err)
	assert.InDelta(t, 50, value, 1e-9)
	assert.Equal(t, "best_digital_model", version)

	value, version, err = s.Predict(&domain.FeatureVector{
		Technology: domain.TechFM,
		Features:   map[string]any{},
	})
	require.NoError(t, err)
	assert.InDelta(t, 40, value, 1e-9)
	assert.Equal(t, "best_fm_model", version)
}

func TestStorePredictUnsupportedTechnology(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Predict(&domain.FeatureVector{
		Technology: domain.TechUnknown,
		Features:   map[string]any{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported technology")
}

func TestStoreLazyLoadFailure(t *testing.T) {
	dir := t.TempDir()
	digital := filepath.Join(dir, "best_digital_model.json")
	require.NoError(t, os.WriteFile(digital, []byte("not json"), 0644))
	fm := writeArtifact(t, dir, "best_fm_model.json", 40)

	s := NewStore(digital, fm)
	assert.NoError(t, s.VerifyArtifacts(), "verification only checks presence")

	_, _, err := s.Predict(&domain.FeatureVector{
		Technology: domain.TechDigital,
		Features:   map[string]any{},
	})
	assert.Error(t, err)

	// The healthy artifact still serves.
	value, _, err := s.Predict(&domain.FeatureVector{
		Technology: domain.TechFM,
		Features:   map[string]any{},
	})
	require.NoError(t, err)
	assert.InDelta(t, 40, value, 1e-9)
}

func TestStoreConcurrentLoad(t *testing.T) {
	s := newTestStore(t)

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = s.Predict(&domain.FeatureVector{
				Technology: domain.TechFM,
				Features:   map[string]any{},
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestStoreLoadObserver(t *testing.T) {
	s := newTestStore(t)

	var mu sync.Mutex
	type loadEvent struct {
		tech domain.Technology
		err  error
	}
	var events []loadEvent
	s.OnLoad(func(tech domain.Technology, duration time.Duration, err error) {
		mu.Lock()
		events = append(events, loadEvent{tech: tech, err: err})
		mu.Unlock()
	})

	for i := 0; i < 3; i++ {
		_, _, err := s.Predict(&domain.FeatureVector{
			Technology: domain.TechFM,
			Features:   map[string]any{},
		})
		require.NoError(t, err)
	}

	require.Len(t, events, 1, "artifact parsed once, repeats hit the cache")
	assert.Equal(t, domain.TechFM, events[0].tech)
	assert.NoError(t, events[0].err)
}

func TestStoreLoadObserverFailure(t *testing.T) {
	dir := t.TempDir()
	digital := filepath.Join(dir, "best_digital_model.json")
	require.NoError(t, os.WriteFile(digital, []byte("not json"), 0644))
	fm := writeArtifact(t, dir, "best_fm_model.json", 40)

	s := NewStore(digital, fm)
	var observedErr error
	s.OnLoad(func(tech domain.Technology, duration time.Duration, err error) {
		observedErr = err
	})

	_, _, err := s.Predict(&domain.FeatureVector{
		Technology: domain.TechDigital,
		Features:   map[string]any{},
	})
	require.Error(t, err)
	assert.Error(t, observedErr, "failed parses are reported too")
}

func TestStoreVersion(t *testing.T) {
	s := newTestStore(t)

	v, err := s.Version(domain.TechFM)
	require.NoError(t, err)
	assert.Equal(t, "best_fm_model", v)

	_, err = s.Version(domain.TechUnknown)
	assert.Error(t, err)
}

func TestVersionFromPath(t *testing.T) {
	assert.Equal(t, "best_fm_model", versionFromPath("/opt/artifacts/best_fm_model.json"))
	assert.Equal(t, "best_digital_model", versionFromPath("best_digital_model.json"))
	assert.Equal(t, "model", versionFromPath("model"))
}
