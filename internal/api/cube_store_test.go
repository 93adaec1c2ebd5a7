package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamline-data/spectra.report/internal/cube"
	"github.com/beamline-data/spectra.report/internal/timeutil"
)

func storeCube() *cube.Cube {
	return &cube.Cube{
		Energy: []float64{20.0},
		Kx:     []float64{-5.0},
		Ky:     []float64{-1.0, 1.0},
		Data:   [][][]float64{{{1, 2}}},
	}
}

func TestCubeStorePutGet(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := NewCubeStore(10*time.Minute, clock)

	store.Put("a", storeCube())

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float64{-5.0}, got.Kx)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestCubeStoreExpiry(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := NewCubeStore(10*time.Minute, clock)

	store.Put("a", storeCube())

	clock.Advance(9 * time.Minute)
	_, ok := store.Get("a")
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = store.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestCubeStoreDelete(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := NewCubeStore(10*time.Minute, clock)

	store.Put("a", storeCube())
	store.Delete("a")
	_, ok := store.Get("a")
	assert.False(t, ok)
}

func TestCubeStoreJanitor(t *testing.T) {
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	store := NewCubeStore(10*time.Minute, clock)

	store.Put("a", storeCube())
	store.Put("b", storeCube())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, time.Minute)
		close(done)
	}()

	// the janitor registers its ticker asynchronously, so keep advancing
	// past the TTL until the sweep lands
	deadline := time.Now().Add(2 * time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		clock.Advance(11 * time.Minute)
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 0, store.Len())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop on cancel")
	}
}
