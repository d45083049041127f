// Package metrics exposes queue health counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	QueuedPlayers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ntpug_queued_players",
		Help: "players currently waiting in the PUG queue",
	}, []string{"guild"})
	PlayersRequired = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ntpug_players_required",
		Help: "total players required to start a PUG",
	}, []string{"guild"})
	PugsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ntpug_pugs_started_total",
		Help: "total PUG matches announced",
	}, []string{"guild"})
	RolePings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ntpug_role_pings_total",
		Help: "total pugger role broadcasts sent",
	}, []string{"guild"})
)

func Init() {
	prometheus.MustRegister(QueuedPlayers, PlayersRequired, PugsStarted, RolePings)
}

// Serve starts the /metrics listener. Blocks; run in a goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logrus.WithField("addr", addr).Info("metrics listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Error("metrics server stopped")
	}
}
