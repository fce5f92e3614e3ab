package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fast_diary"

var (
	entryOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "entry_operations_total",
		Help:      "Diary entry store operations by kind and result.",
	}, []string{"op", "result"})

	entryWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "entry_write_duration_seconds",
		Help:      "Time spent writing a diary entry.",
		Buckets:   prometheus.DefBuckets,
	})

	entryWriteBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "entry_write_bytes_total",
		Help:      "Bytes of diary text written.",
	})

	settingFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "setting_default_fallback_total",
		Help:      "Font size reads that fell back to the default because of a store error.",
	})

	settingWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "setting_writes_total",
		Help:      "Preference writes by result.",
	}, []string{"result"})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
