package metrics

import (
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReportMetrics интерфейс для метрик страниц отчетов и снапшота
type ReportMetrics interface {
	IncReportBuilt(page string)
	ObserveReportDuration(page string, d time.Duration)
	IncCacheHit(page string)
	IncCacheMiss(page string)
	SetSnapshotRecords(records, dropped int)
	IncReloadSuccess()
	IncReloadFailure()
}

type reportMetrics struct {
	log             *logger.Logger
	reportsBuilt    *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	cacheOutcome    *prometheus.CounterVec
	snapshotRecords prometheus.Gauge
	snapshotDropped prometheus.Gauge
	reloads         *prometheus.CounterVec
}

// NewReportMetrics создает метрики отчетов
func NewReportMetrics(registry *prometheus.Registry, log *logger.Logger) ReportMetrics {
	reportsBuilt := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_built_total",
			Help: "The total number of built report pages",
		},
		[]string{"page"},
	)

	reportDuration := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_build_duration_seconds",
			Help:    "Report build duration distribution",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		},
		[]string{"page"},
	)

	cacheOutcome := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_cache_requests_total",
			Help: "Report cache lookups by outcome",
		},
		[]string{"page", "outcome"},
	)

	snapshotRecords := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_records",
			Help: "Number of records in the published snapshot",
		},
	)

	snapshotDropped := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_dropped_rows",
			Help: "Number of raw rows dropped during normalization",
		},
	)

	reloads := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_reloads_total",
			Help: "The total number of snapshot reloads by result",
		},
		[]string{"result"},
	)

	return &reportMetrics{
		log:             log,
		reportsBuilt:    reportsBuilt,
		reportDuration:  reportDuration,
		cacheOutcome:    cacheOutcome,
		snapshotRecords: snapshotRecords,
		snapshotDropped: snapshotDropped,
		reloads:         reloads,
	}
}

// IncReportBuilt увеличивает счетчик построенных страниц
func (m *reportMetrics) IncReportBuilt(page string) {
	m.reportsBuilt.WithLabelValues(page).Inc()
}

// ObserveReportDuration записывает длительность построения страницы
func (m *reportMetrics) ObserveReportDuration(page string, d time.Duration) {
	m.reportDuration.WithLabelValues(page).Observe(d.Seconds())
}

// IncCacheHit увеличивает счетчик попаданий в кэш
func (m *reportMetrics) IncCacheHit(page string) {
	m.cacheOutcome.WithLabelValues(page, "hit").Inc()
}

// IncCacheMiss увеличивает счетчик промахов кэша
func (m *reportMetrics) IncCacheMiss(page string) {
	m.cacheOutcome.WithLabelValues(page, "miss").Inc()
}

// SetSnapshotRecords записывает размер опубликованного снапшота
func (m *reportMetrics) SetSnapshotRecords(records, dropped int) {
	m.snapshotRecords.Set(float64(records))
	m.snapshotDropped.Set(float64(dropped))
}

// IncReloadSuccess увеличивает счетчик успешных перезагрузок
func (m *reportMetrics) IncReloadSuccess() {
	m.reloads.WithLabelValues("success").Inc()
}

// IncReloadFailure увеличивает счетчик неудачных перезагрузок
func (m *reportMetrics) IncReloadFailure() {
	m.reloads.WithLabelValues("failure").Inc()
}
