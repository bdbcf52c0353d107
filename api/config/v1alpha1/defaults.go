// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

const (
	// DefaultOutputDir is the default directory catalogs are written to.
	DefaultOutputDir = "data"
	// DefaultOfferBaseURL is the default base URL of the AWS bulk pricing offer files.
	DefaultOfferBaseURL = "https://pricing.us-east-1.amazonaws.com"
	// DefaultAPIRegion is the default region of the AWS Price List Query API endpoint.
	DefaultAPIRegion = "us-east-1"
	// ExcludedPriceNameWindowsBYOL is priced like Linux and therefore hidden by default.
	ExcludedPriceNameWindowsBYOL = "Windows - Bring your own license"
)

// SetDefaults_PreprocessorConfig sets defaults for the PreprocessorConfig.
func SetDefaults_PreprocessorConfig(config *PreprocessorConfig) {
	if config.APIVersion == "" {
		config.APIVersion = GroupVersion
	}
	if config.Kind == "" {
		config.Kind = KindPreprocessorConfig
	}
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}
	if config.ExcludedPriceNames == nil {
		config.ExcludedPriceNames = []string{ExcludedPriceNameWindowsBYOL}
	}
	if config.MaxConcurrentRegions == nil {
		config.MaxConcurrentRegions = ptr.To(4)
	}
	SetDefaults_FetchConfig(&config.Fetch)
}

// SetDefaults_FetchConfig sets defaults for the FetchConfig.
func SetDefaults_FetchConfig(config *FetchConfig) {
	if config.OfferBaseURL == "" {
		config.OfferBaseURL = DefaultOfferBaseURL
	}
	if config.APIRegion == "" {
		config.APIRegion = DefaultAPIRegion
	}
	if config.Timeout.Duration == 0 {
		config.Timeout = metav1.Duration{Duration: 10 * time.Minute}
	}
}
