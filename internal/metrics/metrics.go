package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ReviewConsole/internal/ports"
	"ReviewConsole/internal/progress"
)

// Metrics provides observability for aggregation passes and queries.
type Metrics struct {
	// Completed passes and how long aggregation took
	Passes       prometheus.Counter
	PassDuration prometheus.Histogram

	// Papers in the latest pass by completion state
	Papers *prometheus.GaugeVec

	// Reviews in the latest pass by state
	Reviews *prometheus.GaugeVec

	// Issues found by kind, summed over passes
	Issues *prometheus.CounterVec

	// Queries rejected by the parser, by view
	QueryErrors *prometheus.CounterVec
}

var _ ports.PassRecorder = (*Metrics)(nil)

// New registers all console metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Passes: factory.NewCounter(prometheus.CounterOpts{
			Name: "reviewconsole_passes_total",
			Help: "Total aggregation passes",
		}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewconsole_pass_duration_seconds",
			Help:    "Duration of aggregating one snapshot",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		Papers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "reviewconsole_papers",
			Help: "Papers in the latest pass by completion state",
		}, []string{"state"}), // state: "complete", "incomplete"
		Reviews: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "reviewconsole_reviews",
			Help: "Reviews in the latest pass by state",
		}, []string{"state"}), // state: "submitted", "missing"
		Issues: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewconsole_pass_issues_total",
			Help: "Issues tolerated during aggregation by kind",
		}, []string{"kind"}),
		QueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewconsole_query_errors_total",
			Help: "Filter expressions rejected by the parser by view",
		}, []string{"view"}),
	}
}

// ObservePass records one aggregation pass.
func (m *Metrics) ObservePass(totals progress.Totals, issues []progress.Issue, took time.Duration) {
	if m == nil {
		return
	}
	m.Passes.Inc()
	m.PassDuration.Observe(took.Seconds())
	m.Papers.WithLabelValues("complete").Set(float64(totals.CompletePapers))
	m.Papers.WithLabelValues("incomplete").Set(float64(totals.Papers - totals.CompletePapers))
	m.Reviews.WithLabelValues("submitted").Set(float64(totals.SubmittedReviews))
	m.Reviews.WithLabelValues("missing").Set(float64(totals.AssignedReviews - totals.SubmittedReviews))
	for _, issue := range issues {
		m.Issues.WithLabelValues(string(issue.Kind)).Inc()
	}
}

// ObserveQueryError records a rejected filter expression.
func (m *Metrics) ObserveQueryError(view string) {
	if m != nil {
		m.QueryErrors.WithLabelValues(view).Inc()
	}
}

// Serve exposes gatherer on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
