// ABOUTME: Prometheus counters for table loads, writes, healing, and cascades.
// ABOUTME: All methods are safe on a nil *Manager so callers can run without metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load sources.
const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// Cascade outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
)

// Manager owns the data layer's Prometheus metrics.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer
	gatherer  prometheus.Gatherer

	tableLoads  *prometheus.CounterVec
	tableWrites *prometheus.CounterVec
	tableErrors *prometheus.CounterVec
	rowsHealed  *prometheus.CounterVec
	cascades    *prometheus.CounterVec
}

// NewManager creates a manager registered on a fresh registry unless one is
// supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "apnealog",
		subsystem: "store",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		reg := prometheus.NewRegistry()
		m.registry = reg
		m.gatherer = reg
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tableLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_loads_total",
		Help:      "Table loads by source (cache or remote)",
	}, []string{"table", "source"})

	m.tableWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_writes_total",
		Help:      "Whole-table rewrites",
	}, []string{"table"})

	m.tableErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_errors_total",
		Help:      "Failed table operations",
	}, []string{"table", "op"})

	m.rowsHealed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_healed_total",
		Help:      "Rows modified by migration-on-read",
	}, []string{"collection"})

	m.cascades = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cascades_total",
		Help:      "Cross-collection operations by outcome",
	}, []string{"op", "outcome"})
}

// Registry returns the registerer the metrics live on.
func (m *Manager) Registry() prometheus.Registerer {
	if m == nil {
		return nil
	}
	return m.registry
}

// Gatherer returns the gatherer for the manager's registry, or nil when the
// supplied registerer cannot be gathered.
func (m *Manager) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

// Handler serves the manager's metrics in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	g := m.Gatherer()
	if g == nil {
		g = prometheus.NewRegistry()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// TableLoaded counts a load served from source.
func (m *Manager) TableLoaded(table, source string) {
	if m == nil {
		return
	}
	m.tableLoads.WithLabelValues(table, source).Inc()
}

// TableWritten counts a whole-table rewrite.
func (m *Manager) TableWritten(table string) {
	if m == nil {
		return
	}
	m.tableWrites.WithLabelValues(table).Inc()
}

// TableFailed counts a failed load or write.
func (m *Manager) TableFailed(table, op string) {
	if m == nil {
		return
	}
	m.tableErrors.WithLabelValues(table, op).Inc()
}

// RowsHealed adds n healed rows for a collection.
func (m *Manager) RowsHealed(collection string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsHealed.WithLabelValues(collection).Add(float64(n))
}

// Cascade counts a coordinator operation outcome.
func (m *Manager) Cascade(op, outcome string) {
	if m == nil {
		return
	}
	m.cascades.WithLabelValues(op, outcome).Inc()
}
