package patrol

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentorg_patrol_passes_total",
		Help: "Number of completed patrol passes",
	})

	passesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentorg_patrol_passes_skipped_total",
		Help: "Number of ticks skipped because a pass was still running",
	})

	findingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentorg_patrol_findings_total",
		Help: "Findings emitted, by kind",
	}, []string{"kind"})

	detectorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentorg_patrol_detector_failures_total",
		Help: "Detector executions that failed, by detector",
	}, []string{"detector"})

	dispatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentorg_patrol_dispatches_total",
		Help: "Directive messages dispatched to actors",
	})

	dispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentorg_patrol_dispatch_failures_total",
		Help: "Directive dispatches that failed to send",
	})

	reconcileSyncs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentorg_patrol_reconcile_syncs_total",
		Help: "Project-task statuses synchronized from operations",
	})
)
