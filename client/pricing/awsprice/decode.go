// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package awsprice

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
)

// DecodeFile opens the pricing data at path and delegates to Decode.
func DecodeFile(path string) (offers []ProductOffer, err error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pricingapi.ErrDecodeOffer, err)
	}
	defer func() {
		_ = f.Close()
	}()
	offers, err = Decode(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		err = fmt.Errorf("%w (file %q)", err, path)
	}
	return
}

// Decode reads pricing data published either as an offer file or as product lines and returns
// the products in the order they appear in the input.
//
// The shape is decided by the first JSON value: a top-level "products" key denotes an offer file,
// anything else is taken as the first of a sequence of ProductOffer values.
func Decode(r io.Reader) ([]ProductOffer, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", pricingapi.ErrDecodeOffer, err)
	}

	var probe struct {
		Products json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", pricingapi.ErrDecodeOffer, err)
	}
	if probe.Products != nil {
		var offerFile OfferFile
		if err := json.Unmarshal(raw, &offerFile); err != nil {
			return nil, fmt.Errorf("%w: invalid offer file: %w", pricingapi.ErrDecodeOffer, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: unexpected data after offer file", pricingapi.ErrDecodeOffer)
		}
		return offerFile.ProductOffers(), nil
	}

	var offers []ProductOffer
	for record := 1; ; record++ {
		var po ProductOffer
		if err := json.Unmarshal(raw, &po); err != nil {
			return nil, fmt.Errorf("%w: invalid product line %d: %w", pricingapi.ErrDecodeOffer, record, err)
		}
		offers = append(offers, po)
		raw = nil
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: product line %d: %w", pricingapi.ErrDecodeOffer, record+1, err)
		}
	}
	return offers, nil
}

// ProductOffers splits the offer file into one ProductOffer per product, in publication order.
func (o *OfferFile) ProductOffers() []ProductOffer {
	offers := make([]ProductOffer, 0, o.Products.Len())
	for sku, p := range o.Products.All() {
		if p.SKU == "" {
			p.SKU = sku
		}
		offers = append(offers, ProductOffer{
			Product: p,
			Terms: Terms{
				OnDemand: o.Terms.OnDemand[sku],
				Reserved: o.Terms.Reserved[sku],
			},
			PublicationDate: o.PublicationDate,
		})
	}
	return offers
}
