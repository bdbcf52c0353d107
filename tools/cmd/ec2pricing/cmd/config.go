// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sigyaml "sigs.k8s.io/yaml"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
	configv1alpha1 "github.com/gardener/instance-pricing/api/config/v1alpha1"
)

// LoadConfig loads the PreprocessorConfig at path, applies defaults and validates it.
// An empty path yields the default configuration.
// Errors reading or decoding the file are wrapped with commonerrors.ErrLoadConfig, validation
// errors with commonerrors.ErrInvalidOptVal.
func LoadConfig(path string) (*configv1alpha1.PreprocessorConfig, error) {
	config := &configv1alpha1.PreprocessorConfig{}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", commonerrors.ErrLoadConfig, err)
		}
		if err = sigyaml.UnmarshalStrict(data, config); err != nil {
			return nil, fmt.Errorf("%w: cannot decode %q: %w", commonerrors.ErrLoadConfig, path, err)
		}
	}
	configv1alpha1.SetDefaults_PreprocessorConfig(config)
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *configv1alpha1.PreprocessorConfig) error {
	var errs []error
	if config.APIVersion != configv1alpha1.GroupVersion {
		errs = append(errs, fmt.Errorf("%w: apiVersion must be %q, got %q", commonerrors.ErrInvalidOptVal, configv1alpha1.GroupVersion, config.APIVersion))
	}
	if config.Kind != configv1alpha1.KindPreprocessorConfig {
		errs = append(errs, fmt.Errorf("%w: kind must be %q, got %q", commonerrors.ErrInvalidOptVal, configv1alpha1.KindPreprocessorConfig, config.Kind))
	}
	if *config.MaxConcurrentRegions < 1 {
		errs = append(errs, fmt.Errorf("%w: maxConcurrentRegions must be at least 1, got %d", commonerrors.ErrInvalidOptVal, *config.MaxConcurrentRegions))
	}
	if config.Fetch.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: fetch.timeout must not be negative", commonerrors.ErrInvalidOptVal))
	}
	for i, r := range config.Regions {
		if r.ID == "" || r.Label == "" {
			errs = append(errs, fmt.Errorf("%w: regions[%d] needs an id and a label", commonerrors.ErrInvalidOptVal, i))
		}
	}
	return errors.Join(errs...)
}
