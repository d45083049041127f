package pug

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLazyIdempotentCreation(t *testing.T) {
	r, err := NewRegistry(Options{PlayersRequired: 4})
	require.NoError(t, err)

	_, ok := r.Lookup("g1")
	assert.False(t, ok)

	a := r.Get("g1")
	b := r.Get("g1")
	assert.Same(t, a, b)

	got, ok := r.Lookup("g1")
	assert.True(t, ok)
	assert.Same(t, a, got)
}

func TestRegistryIndependentGuilds(t *testing.T) {
	r, err := NewRegistry(Options{PlayersRequired: 4})
	require.NoError(t, err)

	g1 := r.Get("g1")
	g2 := r.Get("g2")
	require.NotSame(t, g1, g2)

	require.NoError(t, g1.PlayerJoin(player(1), NoPreference))
	assert.Equal(t, 1, g1.NumQueued())
	assert.Equal(t, 0, g2.NumQueued())

	assert.ElementsMatch(t, []string{"g1", "g2"}, r.GuildIDs())
}

func TestRegistryInvalidOptions(t *testing.T) {
	_, err := NewRegistry(Options{PlayersRequired: 5})
	assert.Error(t, err)
}

func TestRegistryConcurrentGet(t *testing.T) {
	r, err := NewRegistry(Options{PlayersRequired: 4})
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]*PugStatus, 32)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = r.Get(fmt.Sprintf("g%d", i%4))
		}(i)
	}
	wg.Wait()

	for i := range got {
		assert.Same(t, r.Get(fmt.Sprintf("g%d", i%4)), got[i])
	}
	assert.Len(t, r.GuildIDs(), 4)
}
