// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
)

const (
	// GroupVersion is the API version of the configuration types in this package.
	GroupVersion = "pricing.gardener.cloud/v1alpha1"
	// KindPreprocessorConfig is the kind of PreprocessorConfig.
	KindPreprocessorConfig = "PreprocessorConfig"
)

// PreprocessorConfig defines the configuration of the ec2pricing preprocessor.
type PreprocessorConfig struct {
	metav1.TypeMeta `json:",inline"`
	// Regions adds regions to the built-in region table or relabels built-in regions.
	Regions []pricingapi.RegionInfo `json:"regions,omitempty"`
	// OutputDir is the directory region catalogs and the merged options document are written to.
	OutputDir string `json:"outputDir,omitempty"`
	// MetricsFile is the path of a Prometheus textfile describing the last run.
	// No metrics are written if it is empty.
	MetricsFile string `json:"metricsFile,omitempty"`
	// ExcludedPriceNames are price names dropped from the merged options document.
	ExcludedPriceNames []string `json:"excludedPriceNames,omitempty"`
	// MaxConcurrentRegions bounds the number of regions built at the same time.
	MaxConcurrentRegions *int `json:"maxConcurrentRegions,omitempty"`
	// Fetch configures the download of pricing data.
	Fetch FetchConfig `json:"fetch"`
}

// FetchConfig configures where and how pricing data is downloaded.
type FetchConfig struct {
	// OfferBaseURL is the base URL of the AWS bulk pricing offer files.
	OfferBaseURL string `json:"offerBaseURL,omitempty"`
	// APIRegion is the region of the AWS Price List Query API endpoint.
	APIRegion string `json:"apiRegion,omitempty"`
	// Timeout bounds a single download.
	Timeout metav1.Duration `json:"timeout"`
}
