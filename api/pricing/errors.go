package pricing

import "errors"

var (
	// ErrMalformedPriceDimension is a sentinel error indicating that the pricePerUnit map of a price dimension does not have exactly one entry.
	ErrMalformedPriceDimension = errors.New("malformed price dimension")
	// ErrMalformedAmount is a sentinel error indicating that a price amount is not a decimal number.
	ErrMalformedAmount = errors.New("malformed price amount")
	// ErrExpectedSingleOffer is a sentinel error indicating that on-demand terms do not hold exactly one offer.
	ErrExpectedSingleOffer = errors.New("expected single offer")
	// ErrExpectedSingleDimension is a sentinel error indicating that an on-demand offer does not hold exactly one price dimension.
	ErrExpectedSingleDimension = errors.New("expected single price dimension")
	// ErrExpectedHourlyCost is a sentinel error indicating that a price dimension is not an hourly cost.
	ErrExpectedHourlyCost = errors.New("expected hourly cost")
	// ErrUnexpectedCostShape is a sentinel error indicating that the dimensions of a reserved offer do not partition into at most one hourly and at most one upfront cost.
	ErrUnexpectedCostShape = errors.New("unexpected costs in offer")
	// ErrMalformedLeaseLength is a sentinel error indicating that the lease contract length of a reserved offer is not of the form "<n>yr".
	ErrMalformedLeaseLength = errors.New("malformed lease contract length")
	// ErrUnitMismatch is a sentinel error indicating that two costs in different units were combined.
	ErrUnitMismatch = errors.New("cost unit mismatch")
	// ErrUnsupportedCurrency is a sentinel error indicating that a cost is not in USD where a dollar amount is required.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrUnexpectedFargateProductCount is a sentinel error indicating that a CPU architecture does not have exactly one per-vCPU and one per-GB rate product.
	ErrUnexpectedFargateProductCount = errors.New("unexpected fargate product count")
	// ErrDecodeOffer is a sentinel error indicating that the pricing input could not be decoded.
	ErrDecodeOffer = errors.New("cannot decode pricing offer")
	// ErrLoadCatalog is a sentinel error indicating that a catalog artifact could not be loaded.
	ErrLoadCatalog = errors.New("cannot load catalog")
)
