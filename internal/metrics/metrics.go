// Package metrics holds the server's Prometheus instrumentation, a
// generalization of the teacher's hand-rolled atomic byte/message
// counters (server.go's monitorNetworkUsage) into real metrics with
// bounded label cardinality (no per-player labels, matching the
// DoS-avoidance pattern used throughout the retrieval pack).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveMatches is the current number of running matches.
	ActiveMatches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shipwar_active_matches",
		Help: "Currently running matches",
	})

	// TotalPlayers is the current number of players across all matches.
	TotalPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shipwar_total_players",
		Help: "Players currently seated in a match",
	})

	// QueueSize is the current matchmaking queue length.
	QueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shipwar_queue_size",
		Help: "Players currently waiting in the matchmaking queue",
	})

	// TickDuration measures one match tick's wall-clock cost.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipwar_tick_duration_seconds",
		Help:    "Time spent processing one match tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.033},
	})

	// SnapshotBuildDuration measures snapshot assembly cost.
	SnapshotBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipwar_snapshot_build_duration_seconds",
		Help:    "Time spent assembling a snapshot message",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	// SubscriberLagTotal counts lag events across all snapshot subscribers.
	SubscriberLagTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipwar_subscriber_lag_total",
		Help: "Total snapshot-subscriber lag events across all sessions",
	})

	// ConnectionsRejectedTotal counts rejected upgrade attempts by reason.
	// The reason label takes fixed values only, to avoid cardinality
	// blowup from attacker-controlled input; the session router records
	// "auth", and upgrades refused by the rate limiter are not counted.
	ConnectionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipwar_connections_rejected_total",
		Help: "Upgrade requests rejected before a session was established",
	}, []string{"reason"})

	// WSConnectionsActive is the current count of live sessions.
	WSConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shipwar_websocket_connections_active",
		Help: "Currently active WebSocket sessions",
	})

	// MessagesSentTotal/MessagesReceivedTotal count wire frames, replacing
	// the teacher's atomic bytesSent/messagesSent counters.
	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipwar_messages_sent_total",
		Help: "Total server-to-client frames sent",
	})

	MessagesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipwar_messages_received_total",
		Help: "Total client-to-server frames received",
	})
)

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
