package api

import (
	"context"
	"sync"
	"time"

	"github.com/beamline-data/spectra.report/internal/cube"
	"github.com/beamline-data/spectra.report/internal/timeutil"
)

type cubeEntry struct {
	cube      *cube.Cube
	expiresAt time.Time
}

// CubeStore caches assembled cubes by scan ID so queries and exports do not
// re-read the directory on every request. Entries expire after the TTL; a
// janitor sweeps expired entries so abandoned cubes do not pin memory.
type CubeStore struct {
	mu      sync.Mutex
	entries map[string]cubeEntry
	ttl     time.Duration
	clock   timeutil.Clock
}

func NewCubeStore(ttl time.Duration, clock timeutil.Clock) *CubeStore {
	return &CubeStore{
		entries: make(map[string]cubeEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Put stores a cube under the scan ID, resetting its expiry.
func (cs *CubeStore) Put(scanID string, c *cube.Cube) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.entries[scanID] = cubeEntry{cube: c, expiresAt: cs.clock.Now().Add(cs.ttl)}
}

// Get returns the cached cube. Expired entries count as misses and are
// dropped on the spot.
func (cs *CubeStore) Get(scanID string) (*cube.Cube, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	entry, ok := cs.entries[scanID]
	if !ok {
		return nil, false
	}
	if cs.clock.Now().After(entry.expiresAt) {
		delete(cs.entries, scanID)
		return nil, false
	}
	return entry.cube, true
}

// Delete removes a cached cube.
func (cs *CubeStore) Delete(scanID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.entries, scanID)
}

// Len reports the number of live entries, expired or not.
func (cs *CubeStore) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entries)
}

func (cs *CubeStore) sweep() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.clock.Now()
	for id, entry := range cs.entries {
		if now.After(entry.expiresAt) {
			delete(cs.entries, id)
		}
	}
}

// RunJanitor sweeps expired entries on the given interval until ctx is
// cancelled.
func (cs *CubeStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := cs.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			cs.sweep()
		}
	}
}
