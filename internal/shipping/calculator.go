package shipping

import "fmt"

// OriginJapan is the only supported origin. Every quote ships out of a
// Japanese port.
const OriginJapan = "JP"

// volumetricFactor converts CBM to a volumetric weight in kilograms.
// Fixed industry figure for ocean freight.
const volumetricFactor = 167.0

// Warning thresholds. Both compare strictly greater-than, and the weight rule
// reads the caller-supplied actual weight, not the chargeable weight.
const (
	oversizeCBMThreshold  = 20.0
	heavyWeightThresholdKg = 2500.0
)

// Dimensions describes the vehicle being quoted. Lengths are centimeters,
// weight is kilograms.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Rate is one service tier of a calculation.
type Rate struct {
	Service        string   `json:"service"`
	Price          float64  `json:"price"`
	TransitMinDays int      `json:"transit_min_days"`
	TransitMaxDays int      `json:"transit_max_days"`
	DoorToDoor     string   `json:"door_to_door"`
	Restrictions   []string `json:"restrictions"`
}

// Calculation is the full quote for one request: derived volume, the weight
// the carrier bills against, the three service tiers, and advisory warnings.
type Calculation struct {
	CBM      float64  `json:"cbm"`
	Weight   float64  `json:"weight"`
	Rates    []Rate   `json:"rates"`
	Warnings []string `json:"warnings"`
}

// InvalidDimensionsError names the dimension field that failed validation.
type InvalidDimensionsError struct {
	Field  string
	Reason string
}

func (e InvalidDimensionsError) Error() string {
	return fmt.Sprintf("invalid dimensions: %s %s", e.Field, e.Reason)
}

// UnknownDestinationError reports a destination code outside the supported
// list.
type UnknownDestinationError struct {
	Code string
}

func (e UnknownDestinationError) Error() string {
	return fmt.Sprintf("unknown destination: %q", e.Code)
}

// Calculate produces the three-tier ocean freight quote for a vehicle.
//
// The math never fails for non-negative input. Negative values are rejected
// with InvalidDimensionsError; upper bounds (form limits like weight <= 3000)
// belong to the caller, not here.
func Calculate(dims Dimensions, origin, destination string) (Calculation, error) {
	if err := validateNonNegative(dims); err != nil {
		return Calculation{}, err
	}
	if origin != OriginJapan {
		return Calculation{}, UnknownDestinationError{Code: origin}
	}
	if _, ok := DestinationByCode(destination); !ok {
		return Calculation{}, UnknownDestinationError{Code: destination}
	}

	cbm := dims.Length * dims.Width * dims.Height / 1_000_000
	volumetricWeight := cbm * volumetricFactor

	chargeableWeight := dims.Weight
	if volumetricWeight > chargeableWeight {
		chargeableWeight = volumetricWeight
	}

	// Ocean freight bills by whichever of volume and weight pays the carrier
	// more.
	baseRate := cbm * 1000
	if byWeight := dims.Weight * 10; byWeight > baseRate {
		baseRate = byWeight
	}

	rates := []Rate{
		{
			Service:        "Standard Container Shipping",
			Price:          baseRate,
			TransitMinDays: 25,
			TransitMaxDays: 35,
			DoorToDoor:     "30-45 days",
			Restrictions: []string{
				"Shared container space",
				"Port-to-port service only",
			},
		},
		{
			Service:        "Express Container Shipping",
			Price:          baseRate * 1.5,
			TransitMinDays: 15,
			TransitMaxDays: 25,
			DoorToDoor:     "20-30 days",
			Restrictions: []string{
				"Dedicated container",
				"Priority port handling",
			},
		},
		{
			Service:        "Premium RoRo Shipping",
			Price:          baseRate * 2.0,
			TransitMinDays: 12,
			TransitMaxDays: 15,
			DoorToDoor:     "15-20 days",
			Restrictions: []string{
				"Vehicle must be in running condition",
				"Limited port availability",
			},
		},
	}

	warnings := []string{}
	if cbm > oversizeCBMThreshold {
		warnings = append(warnings, "Vehicle size exceeds standard container dimensions")
	}
	if dims.Weight > heavyWeightThresholdKg {
		warnings = append(warnings, "Vehicle weight requires special handling")
	}

	return Calculation{
		CBM:      cbm,
		Weight:   chargeableWeight,
		Rates:    rates,
		Warnings: warnings,
	}, nil
}

func validateNonNegative(dims Dimensions) error {
	if dims.Length < 0 {
		return InvalidDimensionsError{Field: "length", Reason: "must be non-negative"}
	}
	if dims.Width < 0 {
		return InvalidDimensionsError{Field: "width", Reason: "must be non-negative"}
	}
	if dims.Height < 0 {
		return InvalidDimensionsError{Field: "height", Reason: "must be non-negative"}
	}
	if dims.Weight < 0 {
		return InvalidDimensionsError{Field: "weight", Reason: "must be non-negative"}
	}
	return nil
}
