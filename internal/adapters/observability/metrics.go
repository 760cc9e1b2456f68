package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StageRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewprep", Name: "stage_records_total", Help: "Records entering and leaving each stage."},
		[]string{"stage", "direction"}, // direction: in|out
	)
	StageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewprep", Name: "stage_duration_seconds",
			Help:    "Stage duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	SpellWords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewprep", Name: "spell_words_total", Help: "Words seen by the spelling stage."},
		[]string{"outcome"}, // outcome: known|corrected|unchanged
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewprep", Name: "cache_events_total", Help: "Cache hits/misses/sets/errors."},
		[]string{"cache", "event"},
	)
	SnapshotWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviewprep", Name: "snapshot_writes_total", Help: "Stage checkpoints written per sink."},
		[]string{"sink", "status"}, // status: ok|error
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(StageRecords, StageLatency, SpellWords, CacheEvents, SnapshotWrites)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveStage(stage string, in, out int, dur time.Duration) {
	StageRecords.WithLabelValues(stage, "in").Add(float64(in))
	StageRecords.WithLabelValues(stage, "out").Add(float64(out))
	StageLatency.WithLabelValues(stage).Observe(dur.Seconds())
}

func ObserveSpell(outcome string) { // outcome: known|corrected|unchanged
	SpellWords.WithLabelValues(outcome).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveSnapshot(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SnapshotWrites.WithLabelValues(sink, status).Inc()
}
