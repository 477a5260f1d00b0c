// Package metrics holds the Prometheus instruments for the organize
// pipeline. A nil *Metrics is a valid no-op receiver, so components
// can be built without instrumentation in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	jobsStarted       prometheus.Counter
	jobsCompleted     prometheus.Counter
	jobsFailed        prometheus.Counter
	itemsOrganized    prometheus.Counter
	itemFailures      prometheus.Counter
	classifications   *prometheus.CounterVec
	fetchFailures     prometheus.Counter
	providerCalls     *prometheus.CounterVec
	duplicatesRemoved prometheus.Counter
}

// New registers the instruments on reg and returns the handle used
// by the engine and the classifier.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		jobsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "organize", Name: "jobs_started_total",
			Help: "Organize jobs accepted.",
		}),
		jobsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "organize", Name: "jobs_completed_total",
			Help: "Organize jobs that reached done.",
		}),
		jobsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "organize", Name: "jobs_failed_total",
			Help: "Organize jobs that ended in failure.",
		}),
		itemsOrganized: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "organize", Name: "items_total",
			Help: "Bookmarks placed by organize jobs.",
		}),
		itemFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "organize", Name: "item_failures_total",
			Help: "Bookmarks skipped by organize jobs after an error.",
		}),
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "classify", Name: "decisions_total",
			Help: "Classification decisions by cascade stage.",
		}, []string{"source"}),
		fetchFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "classify", Name: "fetch_failures_total",
			Help: "Page fetches that yielded no text.",
		}),
		providerCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "classify", Name: "provider_calls_total",
			Help: "Remote provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		duplicatesRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: "curator", Subsystem: "dedupe", Name: "removed_total",
			Help: "Duplicate bookmarks removed.",
		}),
	}
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.jobsStarted.Inc()
}

func (m *Metrics) JobCompleted() {
	if m == nil {
		return
	}
	m.jobsCompleted.Inc()
}

func (m *Metrics) JobFailed() {
	if m == nil {
		return
	}
	m.jobsFailed.Inc()
}

func (m *Metrics) ItemOrganized() {
	if m == nil {
		return
	}
	m.itemsOrganized.Inc()
}

func (m *Metrics) ItemFailed() {
	if m == nil {
		return
	}
	m.itemFailures.Inc()
}

func (m *Metrics) Classification(source string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(source).Inc()
}

func (m *Metrics) FetchFailure() {
	if m == nil {
		return
	}
	m.fetchFailures.Inc()
}

func (m *Metrics) ProviderCall(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) DuplicatesRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.duplicatesRemoved.Add(float64(n))
}
