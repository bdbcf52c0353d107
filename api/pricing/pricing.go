// Package pricing provides the domain types of the instance pricing catalog: the per-region catalog
// artifact consumed by the comparison table, and the merged purchase options document.
package pricing

// ProgramName is the name of the preprocessor binary.
const ProgramName = "ec2pricing"

const (
	// CurrencyUSD is the only currency unit that is written into catalog artifacts.
	CurrencyUSD = "USD"
	// HoursPerLeaseYear is the number of hours used to amortize one year of a reservation.
	// The quarter day averages leap years the same way AWS does for its own effective rates.
	HoursPerLeaseYear = 365.25 * 24
	// FargatePriceName is the price name under which synthesized Fargate task sizes are listed.
	FargatePriceName = "Linux"
)

// TypeSpecs holds the descriptive attributes of an instance type. All values are kept verbatim
// as published by AWS, e.g. Memory "16 GiB" or Storage "2 x 900 NVMe SSD".
type TypeSpecs struct {
	// Memory is the memory size, e.g. "1,952 GiB".
	Memory string `json:"memory"`
	// ECU is the EC2 compute unit rating, "NA" or "Variable" for some families.
	ECU string `json:"ecu"`
	// VCPU is the number of virtual CPUs.
	VCPU string `json:"vcpu"`
	// PhysicalProcessor is the processor model.
	PhysicalProcessor string `json:"physicalProcessor"`
	// ClockSpeed is the processor clock speed, e.g. "Up to 3.3 GHz".
	ClockSpeed string `json:"clockSpeed"`
	// Storage is the instance storage, e.g. "EBS only" or "2 x 900 NVMe SSD".
	Storage string `json:"storage"`
	// NetworkPerformance is the network performance class.
	NetworkPerformance string `json:"networkPerformance"`
}

// InstanceTypeInfo is the catalog record of one instance type (or one synthesized Fargate task size).
type InstanceTypeInfo struct {
	// InstanceType is the instance type name, e.g. "m5.large" or "Fargate 0.25/0.5 ARM".
	InstanceType string `json:"instanceType"`
	// Info holds the descriptive specs of the instance type.
	Info TypeSpecs `json:"info"`
}

// ReservedPrice is one reservation plan of a PriceEntry expressed in dollars.
type ReservedPrice struct {
	// Name is the reservation plan name, e.g. "1yr - standard - No Upfront".
	Name string `json:"name"`
	// Upfront is the one-time fee in dollars, nil when the plan has no upfront fee.
	Upfront *float64 `json:"upfront,omitempty"`
	// Hourly is the recurring hourly fee in dollars, nil for all-upfront plans.
	Hourly *float64 `json:"hourly,omitempty"`
	// Blended is the hourly fee plus the upfront fee amortized over the lease.
	Blended float64 `json:"blended"`
}

// PriceEntry is the price of one instance type for one operating system, pre-installed software
// and license model combination.
type PriceEntry struct {
	// Name is the price name, e.g. "Windows - SQL Std" or "Linux".
	Name string `json:"Name"`
	// OnDemand is the on-demand hourly rate in dollars, nil for products without on-demand terms.
	OnDemand *float64 `json:"OnDemand,omitempty"`
	// Reserved holds the reservation plans in the order they were published.
	Reserved []ReservedPrice `json:"Reserved,omitempty"`
}

// PurchaseOptions lists the distinct price names and reservation plan names observed.
type PurchaseOptions struct {
	// Names holds the distinct PriceEntry names.
	Names []string `json:"names"`
	// Reservations holds the distinct ReservedPrice names.
	Reservations []string `json:"reservations"`
}

// RegionCatalog is the artifact written for one region.
type RegionCatalog struct {
	// Name is the human label of the region, e.g. "US East (N. Virginia)".
	Name string `json:"name"`
	// Date is the publication date of the offer file the catalog was built from.
	Date string `json:"date"`
	// Types maps instance type names to their specs.
	Types map[string]InstanceTypeInfo `json:"types"`
	// Options holds the price names and reservation names observed in this region.
	Options PurchaseOptions `json:"options"`
	// Prices maps instance type names to their price entries.
	Prices map[string][]PriceEntry `json:"prices"`
}

// MergedOptions is the document obtained by folding several RegionCatalog artifacts.
type MergedOptions struct {
	// Types is the union of all region types. On key collision the later region wins.
	Types map[string]InstanceTypeInfo `json:"types,omitempty"`
	// Options is the union of all region options.
	Options PurchaseOptions `json:"options"`
	// Dates is the set of publication dates of the merged catalogs.
	Dates []string `json:"dates"`
}

// RegionInfo associates an AWS region code with its human label.
type RegionInfo struct {
	// ID is the region code, e.g. "eu-west-1".
	ID string `json:"id"`
	// Label is the human label, e.g. "EU (Ireland)".
	Label string `json:"label"`
}
