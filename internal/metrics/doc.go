/*
Package metrics provides Prometheus metrics for bosfs filesystem operations.

The Collector keeps its own registry so that embedding programs control what
is exported:

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   true,
		Namespace: "bosfs",
	})
	if err != nil {
		return err
	}
	http.Handle("/metrics", collector.Handler())

Exported series, with Namespace "bosfs":

	bosfs_operations_total{operation,status}
	bosfs_operation_duration_seconds{operation}
	bosfs_operation_size_bytes{operation}
	bosfs_errors_total{operation,code}

The code label of bosfs_errors_total is the storage error code when the
failure came from the bucket (OBJECT_NOT_FOUND, ACCESS_DENIED, ...), otherwise
the adapter error code.

Besides the Prometheus series the collector keeps per-operation counts and
averages, available through GetMetrics and WriteSummary.

A disabled collector accepts every call and records nothing.
*/
package metrics
