package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts parse outcomes for the /metrics endpoint.
type Metrics struct {
	DocumentsParsed    prometheus.Counter
	StructuralFailures prometheus.Counter
	SemanticMismatches prometheus.Counter
	ParseDuration      prometheus.Histogram
}

// NewMetrics registers the parse metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "parser_documents_parsed_total",
			Help: "Total number of documents run through the parser.",
		}),
		StructuralFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "parser_structural_failures_total",
			Help: "Documents rejected with a structural or truncation error.",
		}),
		SemanticMismatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "parser_semantic_mismatches_total",
			Help: "Structurally valid documents whose totals did not reconcile.",
		}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "parser_parse_duration_seconds",
			Help:    "Wall time of one document parse.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
