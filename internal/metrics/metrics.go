package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the trust application.
type Metrics struct {
	Mutations     *prometheus.CounterVec
	SaveFailures  prometheus.Counter
	LoadFallbacks *prometheus.CounterVec
	Navigations   *prometheus.CounterVec
	Members       prometheus.Gauge
	Donations     prometheus.Gauge
	FundTotal     prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	RateLimited  prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg uses a
// private registry so tests can build as many instances as they like.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trust_store_mutations_total",
			Help: "Store mutations by operation",
		}, []string{"op"}),
		SaveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "trust_store_save_failures_total",
			Help: "Writes to the persistence slot that failed",
		}),
		LoadFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trust_store_load_fallbacks_total",
			Help: "Loads that fell back to the empty aggregate, by reason",
		}, []string{"reason"}),
		Navigations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trust_view_navigations_total",
			Help: "View navigations by target view and outcome",
		}, []string{"view", "outcome"}),
		Members: f.NewGauge(prometheus.GaugeOpts{
			Name: "trust_members",
			Help: "Registered members",
		}),
		Donations: f.NewGauge(prometheus.GaugeOpts{
			Name: "trust_donations",
			Help: "Recorded donations",
		}),
		FundTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "trust_fund_total_rupees",
			Help: "Sum of all donation amounts",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trust_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trust_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "trust_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// ObserveData updates the aggregate gauges.
func (m *Metrics) ObserveData(members, donations int, fundTotal int64) {
	if m == nil {
		return
	}
	m.Members.Set(float64(members))
	m.Donations.Set(float64(donations))
	m.FundTotal.Set(float64(fundTotal))
}

// IncMutation counts a store mutation.
func (m *Metrics) IncMutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

// IncSaveFailure counts a failed slot write.
func (m *Metrics) IncSaveFailure() {
	if m == nil {
		return
	}
	m.SaveFailures.Inc()
}

// IncLoadFallback counts a load that returned the empty default.
func (m *Metrics) IncLoadFallback(reason string) {
	if m == nil {
		return
	}
	m.LoadFallbacks.WithLabelValues(reason).Inc()
}

// IncNavigation counts a navigation attempt.
func (m *Metrics) IncNavigation(view string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "ignored"
		view = "unknown"
	}
	m.Navigations.WithLabelValues(view, outcome).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, code int, seconds float64) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// IncRateLimited counts a rejected request.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
