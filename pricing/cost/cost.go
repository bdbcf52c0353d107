// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package cost implements the (currency unit, amount) pair all prices are expressed in.
//
// Amounts are held as decimals so that the fixed-point strings published by AWS are parsed
// without loss; they are converted to float64 only when written into catalog artifacts.
package cost

import (
	"fmt"

	"github.com/shopspring/decimal"
	"k8s.io/utils/ptr"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/client/pricing/awsprice"
)

// Cost is an amount of money in a single currency unit.
type Cost struct {
	// Unit is the currency unit, e.g. "USD" or "CNY".
	Unit string
	// Amount is the non-negative amount.
	Amount decimal.Decimal
}

// New returns a Cost for the given unit and amount.
func New(unit string, amount float64) Cost {
	return Cost{Unit: unit, Amount: decimal.NewFromFloat(amount)}
}

// Parse parses an AWS amount string such as "0.0960000000".
func Parse(unit, amount string) (Cost, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Cost{}, fmt.Errorf("%w: %q %s: %w", pricingapi.ErrMalformedAmount, amount, unit, err)
	}
	if d.IsNegative() {
		return Cost{}, fmt.Errorf("%w: negative amount %q %s", pricingapi.ErrMalformedAmount, amount, unit)
	}
	return Cost{Unit: unit, Amount: d}, nil
}

// FromDimension extracts the sole (unit, amount) entry of the pricePerUnit map of dim.
func FromDimension(dim awsprice.PriceDimension) (Cost, error) {
	if len(dim.PricePerUnit) != 1 {
		return Cost{}, fmt.Errorf("%w: dimension %q has %d pricePerUnit entries, want 1", pricingapi.ErrMalformedPriceDimension, dim.RateCode, len(dim.PricePerUnit))
	}
	for unit, amount := range dim.PricePerUnit {
		c, err := Parse(unit, amount)
		if err != nil {
			return Cost{}, fmt.Errorf("%w: dimension %q: %w", pricingapi.ErrMalformedPriceDimension, dim.RateCode, err)
		}
		return c, nil
	}
	panic("unreachable")
}

// Add returns a+b. Costs in different units cannot be added.
func Add(a, b Cost) (Cost, error) {
	if a.Unit != b.Unit {
		return Cost{}, fmt.Errorf("%w: cannot add %s and %s", pricingapi.ErrUnitMismatch, a, b)
	}
	return Cost{Unit: a.Unit, Amount: a.Amount.Add(b.Amount)}, nil
}

// Scale returns a multiplied by factor, in the unit of a.
func Scale(a Cost, factor float64) Cost {
	return Cost{Unit: a.Unit, Amount: a.Amount.Mul(decimal.NewFromFloat(factor))}
}

// Amortize spreads a over the given number of hours.
func Amortize(a Cost, hours float64) Cost {
	return Cost{Unit: a.Unit, Amount: a.Amount.Div(decimal.NewFromFloat(hours))}
}

// Float64 returns the amount as a float64.
func (c Cost) Float64() float64 {
	return c.Amount.InexactFloat64()
}

func (c Cost) String() string {
	return c.Amount.String() + " " + c.Unit
}

// JustDollars returns the amount of c in dollars. An absent cost yields an absent amount,
// a cost in any other unit than USD is an error.
func JustDollars(c *Cost) (*float64, error) {
	if c == nil {
		return nil, nil
	}
	if c.Unit != pricingapi.CurrencyUSD {
		return nil, fmt.Errorf("%w: expected %s to be in %s", pricingapi.ErrUnsupportedCurrency, c, pricingapi.CurrencyUSD)
	}
	return ptr.To(c.Float64()), nil
}
