package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exporter publishes search metrics on a caller-owned registry so that
// concurrent sessions and tests never share collectors.
type Exporter struct {
	searches    prometheus.Counter
	iterations  prometheus.Counter
	rollouts    prometheus.Counter
	evictions   prometheus.Counter
	stale       prometheus.Counter
	resets      prometheus.Counter
	nodes       prometheus.Gauge
	sampleSize  prometheus.Gauge
	utilization prometheus.Gauge
	duration    prometheus.Histogram
}

func NewExporter(reg prometheus.Registerer) *Exporter {
	factory := promauto.With(reg)
	return &Exporter{
		searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "gamer_searches_total",
			Help: "Completed move searches",
		}),
		iterations: factory.NewCounter(prometheus.CounterOpts{
			Name: "gamer_search_iterations_total",
			Help: "Tree descents performed",
		}),
		rollouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "gamer_rollouts_total",
			Help: "Rollout samples merged into the tree",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "gamer_tree_evictions_total",
			Help: "Nodes evicted to restore table headroom",
		}),
		stale: factory.NewCounter(prometheus.CounterOpts{
			Name: "gamer_stale_results_total",
			Help: "Rollout results discarded because their path was recycled",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "gamer_tree_resets_total",
			Help: "Searches that could not reuse the previous tree",
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gamer_tree_nodes",
			Help: "Nodes allocated in the transposition table",
		}),
		sampleSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gamer_rollout_sample_size",
			Help: "Depth charges per rollout request",
		}),
		utilization: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gamer_worker_utilization",
			Help: "Fraction of time rollout workers spent busy",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gamer_search_duration_seconds",
			Help:    "Wall time of move searches",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

// Observe records one completed search.
func (e *Exporter) Observe(m SearchMetric) {
	e.searches.Inc()
	e.iterations.Add(float64(m.Iterations))
	e.rollouts.Add(float64(m.Rollouts))
	e.evictions.Add(float64(m.Evictions))
	e.stale.Add(float64(m.StaleResults))
	if m.IsTreeReset {
		e.resets.Inc()
	}
	e.nodes.Set(float64(m.NodesInUse))
	e.sampleSize.Set(float64(m.SampleSize))
	e.utilization.Set(m.Utilization)
	e.duration.Observe(m.Duration.Seconds())
}
