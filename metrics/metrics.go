// Package metrics exposes the prometheus collectors of the node.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zksync_test_node"

// Config of the metrics endpoint
type Config struct {
	// Enabled serves the collectors at /metrics
	Enabled bool `mapstructure:"Enabled"`
}

var (
	registry = prometheus.NewRegistry()

	blocksSealed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_sealed_total",
		Help:      "Number of sealed miniblocks",
	})
	txsExecuted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_executed_total",
		Help:      "Number of executed transactions by result",
	}, []string{"result"})
	rpcRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Number of JSON-RPC requests by method",
	}, []string{"method"})
	latestBlock = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "latest_block",
		Help:      "Number of the latest miniblock",
	})
)

func init() {
	registry.MustRegister(
		blocksSealed,
		txsExecuted,
		rpcRequests,
		latestBlock,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry holding the node collectors
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the collectors in the prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// BlockSealed records a new miniblock
func BlockSealed(number uint64) {
	blocksSealed.Inc()
	latestBlock.Set(float64(number))
}

// TxExecuted records the result of an executed transaction
func TxExecuted(result string) {
	txsExecuted.WithLabelValues(result).Inc()
}

// RPCRequest records a JSON-RPC request
func RPCRequest(method string) {
	rpcRequests.WithLabelValues(method).Inc()
}
