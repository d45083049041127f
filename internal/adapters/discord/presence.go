// Package discord - presence.go
// Bot presence ("Watching for N more puggers") used as a passive queue
// status display. Cosmetic: failures are logged and otherwise ignored.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Presence throttles and applies bot status updates. Status keeps
// flipping between idle and online because an activity update on its
// own doesn't propagate reliably.
type Presence struct {
	sess     *discordgo.Session
	interval time.Duration

	mu         sync.Mutex
	lastUpdate time.Time
	lastIdle   bool
}

func NewPresence(s *discordgo.Session, interval time.Duration) *Presence {
	return &Presence{sess: s, interval: interval}
}

// Update refreshes the presence if the update interval has elapsed.
func (p *Presence) Update(needed int) { p.update(needed, false) }

// Force refreshes the presence immediately, bypassing the interval
// gate. Used right before a PUG start announcement so the status is
// guaranteed up to date when the reset lands.
func (p *Presence) Force(needed int) { p.update(needed, true) }

func (p *Presence) update(needed int, force bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !force && time.Since(p.lastUpdate) < p.interval {
		return
	}

	status := discordgo.StatusIdle
	if p.lastIdle {
		status = discordgo.StatusOnline
	}
	p.lastIdle = !p.lastIdle

	var activity discordgo.Activity
	if needed > 0 {
		text := fmt.Sprintf("for %d more pugger", needed)
		if needed > 1 {
			text += "s"
		} else {
			text += "!"
		}
		activity = discordgo.Activity{Type: discordgo.ActivityTypeWatching, Name: text}
	} else {
		activity = discordgo.Activity{Type: discordgo.ActivityTypeGame, Name: "a PUG!"}
	}

	err := p.sess.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status:     string(status),
		Activities: []*discordgo.Activity{&activity},
	})
	if err != nil {
		logrus.WithError(err).Debug("presence update failed")
		return
	}
	p.lastUpdate = time.Now()
}
