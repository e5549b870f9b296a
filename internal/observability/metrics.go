package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/binpath/internal/protocol/binpath"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binpath",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "binpath",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binpath",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Binary path codec operations by outcome kind.",
		},
		[]string{"op", "kind"},
	)
	codecBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "binpath",
			Subsystem: "codec",
			Name:      "path_bytes",
			Help:      "Encoded size of successfully processed paths.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 10),
		},
		[]string{"op"},
	)
)

// Codec operation labels.
const (
	OpDecode   = "decode"
	OpEncode   = "encode"
	OpValidate = "validate"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, codecOps, codecBytes)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// CodecOps returns the codec operation counter, labelled by op and kind.
func CodecOps() *prometheus.CounterVec {
	RegisterMetrics()
	return codecOps
}

// RecordCodec counts one codec operation; size is ignored on failure.
func RecordCodec(op string, size int, err error) {
	RegisterMetrics()
	codecOps.WithLabelValues(op, binpath.Kind(err)).Inc()
	if err == nil && size > 0 {
		codecBytes.WithLabelValues(op).Observe(float64(size))
	}
}
