package app

import (
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Rainyan/discord-bot-ntpug/internal/domain/events"
	"github.com/Rainyan/discord-bot-ntpug/internal/metrics"
)

var subsOnce sync.Once
var subsCancel func() = func() {}

// StartEventSubscribers wires the bus to metrics and logging. Safe to
// call more than once; registration happens a single time.
func (b *Bot) StartEventSubscribers() func() {
	subsOnce.Do(func() {
		var cancels []func()

		cancels = append(cancels, events.Subscribe(func(e events.RosterChanged) {
			metrics.QueuedPlayers.WithLabelValues(e.GuildID).Set(float64(e.NumQueued))
			metrics.PlayersRequired.WithLabelValues(e.GuildID).Set(float64(e.NumExpected))
			logrus.WithFields(logrus.Fields{
				"guild":  e.GuildID,
				"queued": strconv.Itoa(e.NumQueued) + "/" + strconv.Itoa(e.NumExpected),
			}).Debug("roster changed")
		}))

		cancels = append(cancels, events.Subscribe(func(e events.PugReady) {
			metrics.PugsStarted.WithLabelValues(e.GuildID).Inc()
			logrus.WithFields(logrus.Fields{
				"guild":   e.GuildID,
				"players": e.NumPlayers,
			}).Info("PUG started")
		}))

		cancels = append(cancels, events.Subscribe(func(e events.QueueCleared) {
			logrus.WithFields(logrus.Fields{
				"guild": e.GuildID,
				"by":    e.By,
			}).Info("queue cleared")
		}))

		cancels = append(cancels, events.Subscribe(func(e events.RolePinged) {
			metrics.RolePings.WithLabelValues(e.GuildID).Inc()
			logrus.WithField("guild", e.GuildID).Info("pugger role pinged")
		}))

		subsCancel = func() {
			for _, c := range cancels {
				c()
			}
		}
		logrus.Debug("event subscribers registered")
	})

	return subsCancel
}
