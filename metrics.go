package ossvfs

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "ossvfs"

// Metrics exposes counters about listings, cache fills and open handles.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Listings      prometheus.Counter
	ListingErrors prometheus.Counter
	Fills         prometheus.Counter
	FillErrors    prometheus.Counter
	FetchedBytes  prometheus.Counter
	OpenHandles   prometheus.Gauge
	IndexEntries  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg, if given.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Listings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "listings_total",
			Help:      "Number of remote listings used to populate the directory index.",
		}),
		ListingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "listing_errors_total",
			Help:      "Number of failed remote listings.",
		}),
		Fills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_fills_total",
			Help:      "Number of objects fetched into the content cache.",
		}),
		FillErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_fill_errors_total",
			Help:      "Number of failed content cache fills.",
		}),
		FetchedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetched_bytes_total",
			Help:      "Number of bytes fetched from the object store.",
		}),
		OpenHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "open_handles",
			Help:      "Number of currently open file handles.",
		}),
		IndexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "index_entries",
			Help:      "Number of entries in the directory index.",
		}),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Listings, m.ListingErrors,
		m.Fills, m.FillErrors, m.FetchedBytes,
		m.OpenHandles, m.IndexEntries,
	}
}

func (m *Metrics) listed(err error) {
	if m == nil {
		return
	}
	m.Listings.Inc()
	if err != nil {
		m.ListingErrors.Inc()
	}
}

func (m *Metrics) filled(size int64) {
	if m == nil {
		return
	}
	m.Fills.Inc()
	m.FetchedBytes.Add(float64(size))
}

func (m *Metrics) fillFailed() {
	if m == nil {
		return
	}
	m.FillErrors.Inc()
}

func (m *Metrics) handleOpened() {
	if m != nil {
		m.OpenHandles.Inc()
	}
}

func (m *Metrics) handleClosed() {
	if m != nil {
		m.OpenHandles.Dec()
	}
}

func (m *Metrics) indexSize(n int) {
	if m != nil {
		m.IndexEntries.Set(float64(n))
	}
}
