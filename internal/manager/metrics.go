package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	instancesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_instances_created_total",
		Help: "Total number of cart instances created",
	})

	instancesDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_instances_destroyed_total",
		Help: "Total number of cart instances destroyed",
	})

	instancesLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cart_instances_live",
		Help: "Current number of live cart instances",
	})

	stateSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_state_saves_total",
		Help: "Total number of cart state saves",
	})

	stateRestores = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_state_restores_total",
		Help: "Total number of cart state restores",
	})

	stateClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_state_clears_total",
		Help: "Total number of cart state clears",
	})
)
