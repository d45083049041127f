package pug

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// fakeNotifier records sends and resolves the pugger role.
type fakeNotifier struct {
	sent    []string
	sendErr error
	noRole  bool
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, text)
	return nil
}

func (n *fakeNotifier) RoleMention(name string) (string, bool) {
	if n.noRole {
		return "", false
	}
	return "<@&" + name + ">", true
}

func newThrottleStatus(t *testing.T, clock Clock) *PugStatus {
	t.Helper()
	ps, err := NewPugStatus("g1", Options{
		PlayersRequired: 10,
		Rand:            rand.New(rand.NewSource(1)),
		RoleName:        "Puggers",
		PingThreshold:   0.5,
		PingMinInterval: 8 * time.Hour,
		Clock:           clock,
	})
	require.NoError(t, err)
	return ps
}

func fill(t *testing.T, ps *PugStatus, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, ps.PlayerJoin(player(i), NoPreference))
	}
}

func TestPingRoleSendsWhenEligible(t *testing.T) {
	clock := &fakeClock{now: t0}
	ps := newThrottleStatus(t, clock)
	fill(t, ps, 7)

	log := &fakeLog{}
	n := &fakeNotifier{}
	pinged, err := ps.PingRole(context.Background(), log, n)
	require.NoError(t, err)
	assert.True(t, pinged)

	require.Len(t, n.sent, 1)
	msg := n.sent[0]
	assert.Contains(t, msg, "<@&Puggers>")
	assert.Contains(t, msg, "**3 more puggers**")
	assert.Contains(t, msg, "50% full")
	assert.Contains(t, msg, "once per 8 hours")
}

func TestPingRoleSkipsWhenFull(t *testing.T) {
	ps := newThrottleStatus(t, &fakeClock{now: t0})
	fill(t, ps, 10)

	n := &fakeNotifier{}
	pinged, err := ps.PingRole(context.Background(), &fakeLog{}, n)
	require.NoError(t, err)
	assert.False(t, pinged)
	assert.Empty(t, n.sent)
}

func TestPingRoleSkipsBelowFillThreshold(t *testing.T) {
	ps := newThrottleStatus(t, &fakeClock{now: t0})
	fill(t, ps, 4) // 40% < 50%

	n := &fakeNotifier{}
	pinged, err := ps.PingRole(context.Background(), &fakeLog{}, n)
	require.NoError(t, err)
	assert.False(t, pinged)
	assert.Empty(t, n.sent)
}

func TestPingRoleCooldownFromEventLog(t *testing.T) {
	ps := newThrottleStatus(t, &fakeClock{now: t0})
	fill(t, ps, 7)

	// A role mention two hours ago is inside the 8h cooldown window.
	log := &fakeLog{events: []Event{{
		Body:         "<@&Puggers> Need **4 more puggers** for a game!",
		IsBot:        true,
		RoleMentions: []string{"Puggers"},
		Timestamp:    t0.Add(-2 * time.Hour),
	}}}
	n := &fakeNotifier{}
	pinged, err := ps.PingRole(context.Background(), log, n)
	require.NoError(t, err)
	assert.False(t, pinged)
	assert.Empty(t, n.sent)
}

func TestPingRoleCooldownFromOwnSend(t *testing.T) {
	clock := &fakeClock{now: t0}
	ps := newThrottleStatus(t, clock)
	fill(t, ps, 7)

	log := &fakeLog{}
	n := &fakeNotifier{}
	pinged, err := ps.PingRole(context.Background(), log, n)
	require.NoError(t, err)
	require.True(t, pinged)
	require.Len(t, n.sent, 1)

	// Within the window nothing more goes out, and the in-memory cache
	// means the event log isn't even consulted again.
	calls := log.calls
	clock.now = t0.Add(4 * time.Hour)
	pinged, err = ps.PingRole(context.Background(), log, n)
	require.NoError(t, err)
	assert.False(t, pinged)
	assert.Len(t, n.sent, 1)
	assert.Equal(t, calls, log.calls)

	// Once the cooldown elapses the ping is allowed again.
	clock.now = t0.Add(9 * time.Hour)
	pinged, err = ps.PingRole(context.Background(), log, n)
	require.NoError(t, err)
	assert.True(t, pinged)
	assert.Len(t, n.sent, 2)
}

func TestPingRoleSkipsOnLogReadFailure(t *testing.T) {
	ps := newThrottleStatus(t, &fakeClock{now: t0})
	fill(t, ps, 7)

	// Erring on the side of caution: a failed history read counts as a
	// recent ping and is not fatal to the caller.
	log := &fakeLog{err: pugerr("HTTP 429")}
	n := &fakeNotifier{}
	pinged, err := ps.PingRole(context.Background(), log, n)
	require.NoError(t, err)
	assert.False(t, pinged)
	assert.Empty(t, n.sent)
}

func TestPingRoleUnknownRole(t *testing.T) {
	ps := newThrottleStatus(t, &fakeClock{now: t0})
	fill(t, ps, 7)

	n := &fakeNotifier{noRole: true}
	pinged, err := ps.PingRole(context.Background(), &fakeLog{}, n)
	require.NoError(t, err)
	assert.False(t, pinged)
	assert.Empty(t, n.sent)
}

func TestPingRoleSendFailurePropagates(t *testing.T) {
	ps := newThrottleStatus(t, &fakeClock{now: t0})
	fill(t, ps, 7)

	sendErr := pugerr("HTTP 500")
	n := &fakeNotifier{sendErr: sendErr}
	pinged, err := ps.PingRole(context.Background(), &fakeLog{}, n)
	assert.ErrorIs(t, err, sendErr)
	assert.False(t, pinged)

	// A failed send must not arm the cooldown cache.
	n.sendErr = nil
	pinged, err = ps.PingRole(context.Background(), &fakeLog{}, n)
	require.NoError(t, err)
	assert.True(t, pinged)
	assert.Len(t, n.sent, 1)
}

func TestFmtHours(t *testing.T) {
	cases := map[time.Duration]string{
		8 * time.Hour:           "8",
		90 * time.Minute:        "1.5",
		12 * time.Minute:        "0.2",
		24 * time.Hour:          "24",
		30*time.Hour + time.Hour/2: "30.5",
	}
	for d, want := range cases {
		assert.Equal(t, want, fmtHours(d), fmt.Sprintf("%v", d))
	}
}
