package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FSMetrics provides observability for filesystem adapter operations.
//
// This interface is optional - if not provided to the adapter, a no-op
// implementation is used with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	fsMetrics := metrics.NewFSMetrics()
//	adapter := fs.New(store, fsMetrics)
//
//	// Without metrics (no-op)
//	adapter := fs.New(store, nil)
type FSMetrics interface {
	// RecordOperation records a completed filesystem operation with its name,
	// duration, and outcome.
	//
	// Parameters:
	//   - operation: operation name (e.g., "write", "read", "rename")
	//   - duration: Time taken to process the operation
	//   - err: Error if the operation failed, nil if successful
	RecordOperation(operation string, duration time.Duration, err error)

	// RecordBytesTransferred records content bytes read or written.
	//
	// Parameters:
	//   - direction: "read" or "write"
	//   - bytes: Number of bytes transferred
	RecordBytesTransferred(direction string, bytes int64)
}

// fsMetrics is the Prometheus implementation of FSMetrics.
type fsMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTransferred  *prometheus.CounterVec
}

var (
	fsMetricsOnce     sync.Once
	fsMetricsInstance *fsMetrics
)

// NewFSMetrics returns the Prometheus-backed FSMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called). The collectors carry fixed names, so a single instance is
// shared; constructing adapters repeatedly must not re-register them.
func NewFSMetrics() FSMetrics {
	if !IsEnabled() {
		return &noopFSMetrics{}
	}

	fsMetricsOnce.Do(func() {
		fsMetricsInstance = newFSMetrics(GetRegistry())
	})

	return fsMetricsInstance
}

func newFSMetrics(reg *prometheus.Registry) *fsMetrics {
	return &fsMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridmount_fs_operations_total",
				Help: "Total number of filesystem operations by name and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "gridmount_fs_operation_duration_seconds",
				Help: "Duration of filesystem operations in seconds",
				Buckets: []float64{
					0.001, // 1ms
					0.005, // 5ms
					0.01,  // 10ms
					0.025, // 25ms
					0.05,  // 50ms
					0.1,   // 100ms
					0.25,  // 250ms
					0.5,   // 500ms
					1.0,   // 1s
					2.5,   // 2.5s
					5.0,   // 5s
					10.0,  // 10s
				},
			},
			[]string{"operation"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridmount_fs_bytes_transferred_total",
				Help: "Total content bytes transferred through the adapter",
			},
			[]string{"direction"}, // read or write
		),
	}
}

func (m *fsMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *fsMetrics) RecordBytesTransferred(direction string, bytes int64) {
	m.bytesTransferred.WithLabelValues(direction).Add(float64(bytes))
}

// noopFSMetrics is a no-op implementation of FSMetrics with zero overhead.
type noopFSMetrics struct{}

func (noopFSMetrics) RecordOperation(operation string, duration time.Duration, err error) {}
func (noopFSMetrics) RecordBytesTransferred(direction string, bytes int64)                {}
