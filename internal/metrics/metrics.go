// Package metrics defines and registers all custom Prometheus metrics for
// the planning-poker engine. It is the single source of truth for metric
// names, labels, and help strings; collectors register themselves with the
// default Prometheus registry at init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "poker"

// ── Room lifecycle ────────────────────────────────────────────────────────────

// RoomsCreatedTotal counts rooms opened, labelled by whether they are
// password protected ("protected"/"open").
var RoomsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_created_total",
		Help:      "Total number of rooms created.",
	},
	[]string{"access"},
)

// RoomsRemovedTotal counts rooms deleted because their last participant left.
var RoomsRemovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_removed_total",
		Help:      "Total number of rooms removed after becoming empty.",
	},
)

// ParticipantsJoinedTotal counts successful joins by role.
var ParticipantsJoinedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "participants_joined_total",
		Help:      "Total number of participants who joined a room, by role.",
	},
	[]string{"role"},
)

// ── Round activity ────────────────────────────────────────────────────────────

// VotesCastTotal counts votes cast (including overwrites), by role.
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes cast, by voter role.",
	},
	[]string{"role"},
)

// RevealsTotal counts rounds revealed by a facilitator.
var RevealsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reveals_total",
		Help:      "Total number of rounds revealed.",
	},
)

// RoundsStartedTotal counts new rounds started after a reveal.
var RoundsStartedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_started_total",
		Help:      "Total number of new voting rounds started.",
	},
)

// KicksTotal counts participants removed by a facilitator.
var KicksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "kicks_total",
		Help:      "Total number of participants kicked from a room.",
	},
)

// ── Synchronization ───────────────────────────────────────────────────────────

// ExternalSnapshotsTotal counts room collections applied wholesale after
// another writer updated the shared slot.
var ExternalSnapshotsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_snapshots_total",
		Help:      "Total number of externally written room collections applied.",
	},
)

// StorageErrorsTotal counts failed slot operations, labelled by operation
// ("load"/"save"). Malformed content recovered fail-soft is counted under
// RecoveredLoadsTotal instead.
var StorageErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Total number of failed slot load/save operations.",
	},
	[]string{"op"},
)

// RecoveredLoadsTotal counts loads where the persisted collection failed to
// parse and was replaced with an empty collection.
var RecoveredLoadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovered_loads_total",
		Help:      "Total number of malformed persisted collections recovered as empty.",
	},
)
