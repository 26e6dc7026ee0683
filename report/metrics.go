package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

const promMetricPrefix = "bpsim_"

// WriteMetrics writes s to path in the Prometheus text format, for the node
// exporter textfile collector. Every series carries the scheme as a label.
func WriteMetrics(path string, s Summary) error {
	labels := prometheus.Labels{"scheme": s.Scheme}

	branches := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        promMetricPrefix + "branches_total",
		Help:        "Conditional branches simulated.",
		ConstLabels: labels,
	})
	mispredictions := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        promMetricPrefix + "mispredictions_total",
		Help:        "Conditional branches mispredicted.",
		ConstLabels: labels,
	})
	rate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        promMetricPrefix + "misprediction_rate_percent",
		Help:        "Mispredicted share of branches, in percent.",
		ConstLabels: labels,
	})
	sites := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        promMetricPrefix + "branch_sites",
		Help:        "Distinct branch PCs seen.",
		ConstLabels: labels,
	})

	branches.Add(float64(s.Branches))
	mispredictions.Add(float64(s.Mispredictions))
	rate.Set(s.MispredictionRate)
	sites.Set(float64(s.Sites))

	registry := prometheus.NewRegistry()
	registry.MustRegister(branches, mispredictions, rate, sites)

	return prometheus.WriteToTextfile(path, registry)
}
