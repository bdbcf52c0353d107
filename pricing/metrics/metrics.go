// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package metrics describes a preprocessing run as Prometheus metrics. The preprocessor is a
// batch job, so metrics are written to a file for the node exporter textfile collector instead
// of being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gardener/instance-pricing/pricing/catalog"
)

const namespace = "ec2pricing"

// Recorder collects the metrics of one run in its own registry.
type Recorder struct {
	registry        *prometheus.Registry
	products        *prometheus.GaugeVec
	skippedProducts *prometheus.GaugeVec
	priceEntries    *prometheus.GaugeVec
	instanceTypes   *prometheus.GaugeVec
	fargateArchs    *prometheus.GaugeVec
	buildDuration   *prometheus.GaugeVec
	buildFailures   *prometheus.CounterVec
	lastSuccess     prometheus.Gauge
}

// NewRecorder returns a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		products: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "products",
				Help:      "Number of EC2 products read for a region.",
			},
			[]string{"region"},
		),
		skippedProducts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "skipped_products",
				Help:      "Number of EC2 products of a region that are not shared on-demand compute instances.",
			},
			[]string{"region"},
		),
		priceEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "price_entries",
				Help:      "Number of price entries in the catalog of a region.",
			},
			[]string{"region"},
		),
		instanceTypes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "instance_types",
				Help:      "Number of instance types in the catalog of a region, including Fargate task sizes.",
			},
			[]string{"region"},
		),
		fargateArchs: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fargate_architectures",
				Help:      "Number of CPU architectures Fargate task sizes were synthesized for.",
			},
			[]string{"region"},
		),
		buildDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Time taken to decode the pricing data of a region and build its catalog.",
			},
			[]string{"region"},
		),
		buildFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "build_failures_total",
				Help:      "Number of regions whose catalog could not be built.",
			},
			[]string{"region"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that wrote all artifacts.",
			},
		),
	}
	r.registry.MustRegister(
		r.products,
		r.skippedProducts,
		r.priceEntries,
		r.instanceTypes,
		r.fargateArchs,
		r.buildDuration,
		r.buildFailures,
		r.lastSuccess,
	)
	return r
}

// ObserveRegion records a successful build of the catalog of region.
func (r *Recorder) ObserveRegion(region string, stats catalog.Stats, instanceTypes int, d time.Duration) {
	r.products.WithLabelValues(region).Set(float64(stats.Products))
	r.skippedProducts.WithLabelValues(region).Set(float64(stats.SkippedProducts))
	r.priceEntries.WithLabelValues(region).Set(float64(stats.PriceEntries))
	r.instanceTypes.WithLabelValues(region).Set(float64(instanceTypes))
	r.fargateArchs.WithLabelValues(region).Set(float64(stats.FargateArchitectures))
	r.buildDuration.WithLabelValues(region).Set(d.Seconds())
}

// ObserveFailure records a failed build of the catalog of region.
func (r *Recorder) ObserveFailure(region string) {
	r.buildFailures.WithLabelValues(region).Inc()
}

// MarkSuccess records that the run completed at t.
func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

// Gatherer returns the registry holding the metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics in the text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
