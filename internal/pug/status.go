// Package pug - status.go
// PugStatus holds one Discord server's PUG queue information and all of
// the operations on it. One instance per guild, guarded by its own mutex
// so that independent servers never block each other.
package pug

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PugReadyTitle prefixes the match announcement. The exact text matters:
// it doubles as the marker the history replay uses to detect previous
// PUG starts, so don't change it lightly.
const PugReadyTitle = "**PUG is now ready!**"

// Player is one queued user. Two players are the same player iff their
// IDs are equal; Name is only used for message text.
type Player struct {
	ID   string
	Name string
}

// Mention renders the player as a Discord mention.
func (p Player) Mention() string { return "<@" + p.ID + ">" }

// Team selects which roster a join should try first.
type Team int

const (
	NoPreference Team = iota
	Team1
	Team2
)

// Options configures a PugStatus. PlayersRequired is the only mandatory
// field; the rest default sensibly in normalize().
type Options struct {
	// PlayersRequired is the total queue capacity. Must be even and >= 2.
	PlayersRequired int
	// AllowRequeue lets a player join twice. Debug aid only.
	AllowRequeue bool
	// CommandPrefix is the legacy chat command prefix recognized when
	// replaying history ("!" by default).
	CommandPrefix string
	// FirstTeamName / SecondTeamName label the rosters in announcements.
	FirstTeamName  string
	SecondTeamName string
	// RoleName, PingThreshold and PingMinInterval drive the role-ping
	// throttle, see throttle.go.
	RoleName        string
	PingThreshold   float64
	PingMinInterval time.Duration
	// Rand is the randomness source for team picks and scrambles. Seed it
	// in tests when exact sequences must be asserted. Defaults to a
	// time-seeded source.
	Rand *rand.Rand
	// Clock defaults to SystemClock.
	Clock Clock
}

func (o *Options) normalize() error {
	if o.PlayersRequired < 2 {
		return fmt.Errorf("pug: players required must be >= 2, got %d", o.PlayersRequired)
	}
	if o.PlayersRequired%2 != 0 {
		return fmt.Errorf("pug: players required must be even, got %d", o.PlayersRequired)
	}
	if o.PingThreshold < 0 || o.PingThreshold > 1 {
		return fmt.Errorf("pug: ping threshold must be within [0, 1], got %v", o.PingThreshold)
	}
	if o.CommandPrefix == "" {
		o.CommandPrefix = "!"
	}
	if o.FirstTeamName == "" {
		o.FirstTeamName = "Jinrai"
	}
	if o.SecondTeamName == "" {
		o.SecondTeamName = "NSF"
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	return nil
}

// PugStatus is the authoritative in-memory queue state for one guild.
type PugStatus struct {
	guildID string
	opts    Options

	mu          sync.Mutex
	team1       []Player
	team2       []Player
	prevPuggers []Player

	// lastRolePing backs up the event-log cooldown lookup when the log
	// read fails transiently.
	lastRolePing time.Time
}

// NewPugStatus validates opts and returns a fresh, empty queue.
func NewPugStatus(guildID string, opts Options) (*PugStatus, error) {
	if err := (&opts).normalize(); err != nil {
		return nil, err
	}
	return &PugStatus{guildID: guildID, opts: opts}, nil
}

// GuildID returns the owning guild's id.
func (ps *PugStatus) GuildID() string { return ps.guildID }

// PlayerJoin queues a player, trying the preferred team first and then
// the other one. With NoPreference the starting team is an unbiased coin
// flip, so neither roster systematically fills up first.
func (ps *PugStatus) PlayerJoin(p Player, pref Team) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.joinLocked(p, pref)
}

func (ps *PugStatus) joinLocked(p Player, pref Team) error {
	if !ps.opts.AllowRequeue && ps.isQueuedLocked(p) {
		return ErrAlreadyQueued
	}
	team := pref
	if team == NoPreference {
		if ps.opts.Rand.Intn(2) == 0 {
			team = Team1
		} else {
			team = Team2
		}
	}
	first, second := &ps.team1, &ps.team2
	if team == Team2 {
		first, second = second, first
	}
	if len(*first) < ps.playersPerTeamLocked() {
		*first = append(*first, p)
		return nil
	}
	if len(*second) < ps.playersPerTeamLocked() {
		*second = append(*second, p)
		return nil
	}
	return ErrQueueFull
}

// PlayerLeave removes the player from whichever team holds them,
// preserving the arrival order of everyone else.
func (ps *PugStatus) PlayerLeave(p Player) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.leaveLocked(p)
}

func (ps *PugStatus) leaveLocked(p Player) error {
	before := len(ps.team1) + len(ps.team2)
	ps.team1 = removePlayer(ps.team1, p)
	ps.team2 = removePlayer(ps.team2, p)
	if len(ps.team1)+len(ps.team2) == before {
		return ErrNotQueued
	}
	return nil
}

func removePlayer(team []Player, p Player) []Player {
	out := team[:0]
	for _, q := range team {
		if q.ID != p.ID {
			out = append(out, q)
		}
	}
	return out
}

// Reset stores the current puggers as the previous roster, then empties
// both teams. Always succeeds; on an already empty queue the stored
// roster simply becomes empty too.
func (ps *PugStatus) Reset() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.resetLocked()
}

func (ps *PugStatus) resetLocked() {
	roster := make([]Player, 0, len(ps.team1)+len(ps.team2))
	roster = append(roster, ps.team1...)
	roster = append(roster, ps.team2...)
	ps.prevPuggers = roster
	ps.team1 = nil
	ps.team2 = nil
}

// StartPug produces the match-ready announcement for the current
// rosters. It does NOT clear the queue; the caller delivers the
// announcement, refreshes any presence state, and then calls Reset.
// If either team is somehow empty the queue is reset defensively and
// ErrEmptyTeam reported, so the bot never wedges on half-valid state.
func (ps *PugStatus) StartPug() (string, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if len(ps.team1) == 0 || len(ps.team2) == 0 {
		logrus.WithFields(logrus.Fields{
			"guild": ps.guildID,
			"team1": len(ps.team1),
			"team2": len(ps.team2),
		}).Warn("start requested with an empty team; resetting queue")
		ps.resetLocked()
		return "", ErrEmptyTeam
	}

	var b strings.Builder
	b.WriteString(PugReadyTitle)
	b.WriteString("\n\n_")
	b.WriteString(ps.opts.FirstTeamName)
	b.WriteString(" players:_\n")
	b.WriteString(mentionList(ps.team1))
	b.WriteString("\n_")
	b.WriteString(ps.opts.SecondTeamName)
	b.WriteString(" players:_\n")
	b.WriteString(mentionList(ps.team2))
	b.WriteString("\n\nTeams unbalanced? Use `/scramble` to suggest new random teams.")
	return b.String(), nil
}

func mentionList(team []Player) string {
	parts := make([]string, len(team))
	for i, p := range team {
		parts[i] = p.Mention()
	}
	return strings.Join(parts, ", ")
}

func nameList(team []Player) string {
	parts := make([]string, len(team))
	for i, p := range team {
		parts[i] = p.Name
	}
	return strings.Join(parts, ", ")
}

// NumQueued returns the number of players currently waiting.
func (ps *PugStatus) NumQueued() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.team1) + len(ps.team2)
}

// NumExpected returns the total number of players needed to start.
func (ps *PugStatus) NumExpected() int { return ps.opts.PlayersRequired }

// NumMoreNeeded returns how many more players are needed to start.
func (ps *PugStatus) NumMoreNeeded() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.numMoreNeededLocked()
}

func (ps *PugStatus) numMoreNeededLocked() int {
	n := ps.opts.PlayersRequired - len(ps.team1) - len(ps.team2)
	if n < 0 {
		return 0
	}
	return n
}

// IsFull reports whether the queue has reached capacity. Derived on
// every call rather than stored, so it can't drift from the rosters.
func (ps *PugStatus) IsFull() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.team1)+len(ps.team2) >= ps.opts.PlayersRequired
}

// PlayersPerTeam returns the per-team capacity.
func (ps *PugStatus) PlayersPerTeam() int { return ps.opts.PlayersRequired / 2 }

func (ps *PugStatus) playersPerTeamLocked() int { return ps.opts.PlayersRequired / 2 }

// Queued returns a copy of the current rosters, team1 first, in join
// order within each team.
func (ps *PugStatus) Queued() []Player {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]Player, 0, len(ps.team1)+len(ps.team2))
	out = append(out, ps.team1...)
	out = append(out, ps.team2...)
	return out
}

// PreviousRoster returns a copy of the roster snapshot from the last
// reset.
func (ps *PugStatus) PreviousRoster() []Player {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return append([]Player(nil), ps.prevPuggers...)
}

func (ps *PugStatus) isQueuedLocked(p Player) bool {
	for _, q := range ps.team1 {
		if q.ID == p.ID {
			return true
		}
	}
	for _, q := range ps.team2 {
		if q.ID == p.ID {
			return true
		}
	}
	return false
}

// IsQueued reports whether the player currently waits in either team.
func (ps *PugStatus) IsQueued(p Player) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.isQueuedLocked(p)
}
