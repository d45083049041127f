// Package pug - registry.go
// The process-wide guild -> PugStatus mapping, as an explicit object
// instead of a bare package-level map.
package pug

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Registry owns every PugStatus in the process. Entries are created
// lazily on first sight of a guild and never evicted; creation is
// idempotent, so concurrent callers always observe the same instance
// for a given guild.
type Registry struct {
	mu       sync.Mutex
	statuses map[string]*PugStatus
	opts     Options
	seed     int64
	created  int64
}

// NewRegistry validates opts once up front so every status it mints is
// known good.
func NewRegistry(opts Options) (*Registry, error) {
	if err := (&opts).normalize(); err != nil {
		return nil, err
	}
	return &Registry{
		statuses: make(map[string]*PugStatus),
		opts:     opts,
		seed:     time.Now().UnixNano(),
	}, nil
}

// Get returns the guild's PugStatus, creating it on first sight.
func (r *Registry) Get(guildID string) *PugStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ps, ok := r.statuses[guildID]; ok {
		return ps
	}
	opts := r.opts
	// Each status gets its own source: the rng is only ever used under
	// the status lock, which must not be shared between guilds.
	opts.Rand = rand.New(rand.NewSource(r.seed + r.created))
	r.created++
	ps, err := NewPugStatus(guildID, opts)
	if err != nil {
		// Options were validated in NewRegistry.
		panic(err)
	}
	r.statuses[guildID] = ps
	return ps
}

// Lookup returns the guild's PugStatus without creating one.
func (r *Registry) Lookup(guildID string) (*PugStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.statuses[guildID]
	return ps, ok
}

// GuildIDs lists every registered guild in stable order.
func (r *Registry) GuildIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.statuses))
	for id := range r.statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
