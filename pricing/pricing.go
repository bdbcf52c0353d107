// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/common/ioutil"
)

// MergedOptionsFileName is the file name of the merged options document inside an output directory.
const MergedOptionsFileName = "options.json"

// RegionCatalogFileName returns the file name of the catalog of the given region inside an
// output directory, e.g. "ec2-eu-west-1.json".
func RegionCatalogFileName(regionID string) string {
	return "ec2-" + regionID + ".json"
}

// LoadRegionCatalog loads a region catalog from the given path and delegates to RegionCatalogFromData.
func LoadRegionCatalog(path string) (pricingapi.RegionCatalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return pricingapi.RegionCatalog{}, fmt.Errorf("%w: %w", pricingapi.ErrLoadCatalog, err)
	}
	c, err := RegionCatalogFromData(data)
	if err != nil {
		return c, fmt.Errorf("%w (file %q)", err, path)
	}
	return c, nil
}

// RegionCatalogFromData parses a region catalog.
// Errors are wrapped with pricingapi.ErrLoadCatalog sentinel error.
func RegionCatalogFromData(data []byte) (c pricingapi.RegionCatalog, err error) {
	if err = json.Unmarshal(data, &c); err != nil {
		err = fmt.Errorf("%w: %w", pricingapi.ErrLoadCatalog, err)
		return
	}
	if c.Types == nil || c.Prices == nil {
		err = fmt.Errorf("%w: document has no types or prices", pricingapi.ErrLoadCatalog)
	}
	return
}

// WriteRegionCatalog atomically writes c to path.
func WriteRegionCatalog(path string, c pricingapi.RegionCatalog) error {
	return ioutil.WriteJSONFile(path, c)
}

// WriteMergedOptions atomically writes m to path.
func WriteMergedOptions(path string, m pricingapi.MergedOptions) error {
	return ioutil.WriteJSONFile(path, m)
}
