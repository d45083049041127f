// Command bot starts the discord PUG bot process
//
// this binary:
//  1. Loads config from environment variables (.env during dev)
//  2. creates a discord session
//  3. registers the app handlers and slash commands
//  4. opens the gateway connection, starts the queue pollers, and
//     waits for a signal from the OS to exit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/Rainyan/discord-bot-ntpug/internal/app"
	"github.com/Rainyan/discord-bot-ntpug/internal/metrics"
	"github.com/Rainyan/discord-bot-ntpug/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	} else {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	// the "Bot " prefix is required for bot tokens
	sess, err := discordgo.New("Bot " + cfg.SecretToken)
	if err != nil {
		logrus.Fatalf("discord session error: %v", err)
	}

	sess.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages | // prefix commands in the pug channel
		discordgo.IntentsMessageContent // queue reconciliation reads history

	b, err := app.NewBot(sess, cfg)
	if err != nil {
		logrus.Fatalf("bot setup error: %v", err)
	}
	b.RegisterHandlers()
	defer b.Stop()

	if err := sess.Open(); err != nil {
		logrus.Fatalf("open gateway error: %v", err)
	}
	defer sess.Close()

	if err := app.RegisterCommands(sess, sess.State.User.ID); err != nil {
		logrus.Fatalf("slash command registration error: %v", err)
	}

	metrics.Init()
	if cfg.MetricsAddr != "" {
		go metrics.Serve(cfg.MetricsAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.RunQueuePoll(ctx)
	go b.RunIdleSweep(ctx)

	logrus.Infof("bot ready - %s", cfg.Redacted())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	logrus.Info("shutting down")
}
