// Package metrics exposes the coordinator's prometheus collectors.
// Nothing in pkg/playground/core imports this package directly; each
// component instead depends on a small interface (core.RouterMetrics,
// core.StreamerMetrics, core.GaugeMetrics) that Collector satisfies,
// keeping the domain packages free of a transport-layer dependency.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// Collector registers and updates every playground_* series named in
// the coordinator's metrics surface.
type Collector struct {
	framesForwarded *prometheus.CounterVec
	framesDropped   *prometheus.CounterVec
	partitionPairs  prometheus.Gauge
	alivePeers      prometheus.Gauge
	queueDepth      prometheus.Gauge
	batchTotal      prometheus.Gauge
	maxRound        prometheus.Gauge
}

// NewCollector builds and registers every collector against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		framesForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playground_frames_forwarded_total",
			Help: "Mesh frames forwarded by the central router, labeled by source and destination port.",
		}, []string{"src_port", "dst_port"}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playground_frames_dropped_total",
			Help: "Mesh frames dropped by the central router, labeled by source and destination port.",
		}, []string{"src_port", "dst_port"}),
		partitionPairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playground_partition_pairs",
			Help: "Number of undirected pairs currently partitioned.",
		}),
		alivePeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playground_alive_peers",
			Help: "Number of replicas with a live client socket.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playground_proposal_queue_depth",
			Help: "Current depth of the operator command queue.",
		}),
		batchTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playground_proposal_batch_total",
			Help: "Size of the in-flight batch the proposal streamer is draining.",
		}),
		maxRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playground_max_round",
			Help: "Highest round number accepted by the cluster view aggregator.",
		}),
	}
	reg.MustRegister(
		c.framesForwarded,
		c.framesDropped,
		c.partitionPairs,
		c.alivePeers,
		c.queueDepth,
		c.batchTotal,
		c.maxRound,
	)
	return c
}

// ObserveForwarded implements core.RouterMetrics.
func (c *Collector) ObserveForwarded(src, dst types.PairPort) {
	c.framesForwarded.WithLabelValues(strconv.Itoa(int(src)), strconv.Itoa(int(dst))).Inc()
}

// ObserveDropped implements core.RouterMetrics.
func (c *Collector) ObserveDropped(src, dst types.PairPort) {
	c.framesDropped.WithLabelValues(strconv.Itoa(int(src)), strconv.Itoa(int(dst))).Inc()
}

// ObserveQueueDepth implements core.StreamerMetrics.
func (c *Collector) ObserveQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// ObserveBatchTotal implements core.StreamerMetrics.
func (c *Collector) ObserveBatchTotal(total uint64) {
	c.batchTotal.Set(float64(total))
}

// ObserveSnapshot updates the gauges derived from a ClusterSnapshot
// (partition count, alive peer count, max round), called once per
// snapshot the Cluster View Aggregator publishes.
func (c *Collector) ObserveSnapshot(snapshot types.ClusterSnapshot) {
	c.partitionPairs.Set(float64(len(snapshot.PartitionsUndirected)))
	c.alivePeers.Set(float64(len(snapshot.AliveNodes)))
	if snapshot.MaxRound != nil {
		c.maxRound.Set(float64(snapshot.MaxRound.RoundNum))
	}
}
