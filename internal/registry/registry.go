// Package registry maintains the place-identifier lookup table that keeps
// serving-time location names aligned with the training vocabulary. The
// table is built once from the training corpus, persisted as JSON, and is
// read-only for the lifetime of a serving process.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"radiosignals/pkg/contracts/domain"
)

// Registry maps a place identifier to its canonical municipality and
// settlement names.
type Registry map[string]domain.RegistryEntry

// Build derives the registry from cleaned records: for every non-empty
// place identifier, the most frequent municipality and settlement strings
// observed for it. Ties break toward the lexicographically smaller string
// so rebuilds are deterministic.
func Build(records []domain.MeasurementRecord) Registry {
	type tally struct {
		municipality map[string]int
		settlement   map[string]int
	}
	tallies := make(map[string]*tally)

	for i := range records {
		id := strings.TrimSpace(records[i].PlaceID)
		if id == "" {
			continue
		}
		t := tallies[id]
		if t == nil {
			t = &tally{municipality: map[string]int{}, settlement: map[string]int{}}
			tallies[id] = t
		}
		if m := strings.TrimSpace(records[i].Municipality); m != "" {
			t.municipality[m]++
		}
		if s := strings.TrimSpace(records[i].Settlement); s != "" {
			t.settlement[s]++
		} else if raw := strings.TrimSpace(records[i].SettlementRaw); raw != "" {
			t.settlement[raw]++
		}
	}

	reg := make(Registry, len(tallies))
	for id, t := range tallies {
		reg[id] = domain.RegistryEntry{
			Municipality: mode(t.municipality),
			Settlement:   mode(t.settlement),
		}
	}
	return reg
}

// mode returns the most frequent key, ties broken by the smaller string.
func mode(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestN := "", -1
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

// Lookup returns the entry for id, if present.
func (r Registry) Lookup(id string) (domain.RegistryEntry, bool) {
	e, ok := r[id]
	return e, ok
}

// Save persists the registry as a JSON document.
func (r Registry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode location registry: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a persisted registry. Keys are normalized to trimmed strings
// so lookups from numeric-looking identifiers succeed.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read location registry: %w", err)
	}
	var raw map[string]domain.RegistryEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode location registry: %w", err)
	}
	reg := make(Registry, len(raw))
	for k, v := range raw {
		reg[strings.TrimSpace(k)] = v
	}
	return reg, nil
}
