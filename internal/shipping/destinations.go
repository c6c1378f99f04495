package shipping

// Destination is a supported shipping destination. Restrictions are advisory
// strings surfaced to the customer, not enforcement.
type Destination struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Restrictions []string `json:"restrictions,omitempty"`
}

// destinations is the canonical list. Order is part of the contract: the UI
// and tests rely on it being stable.
var destinations = []Destination{
	{Code: "US", Name: "United States", Restrictions: []string{"25-year import rule applies"}},
	{Code: "CA", Name: "Canada", Restrictions: []string{"15-year import rule applies"}},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "IE", Name: "Ireland"},
	{Code: "NL", Name: "Netherlands", Restrictions: []string{"Requires EU compliance certification"}},
	{Code: "DE", Name: "Germany", Restrictions: []string{"Requires EU compliance certification", "TUV inspection required"}},
	{Code: "AU", Name: "Australia", Restrictions: []string{"SEVS eligibility required"}},
	{Code: "NZ", Name: "New Zealand"},
	{Code: "AE", Name: "United Arab Emirates"},
}

// Destinations returns the supported destination list in canonical order.
func Destinations() []Destination {
	out := make([]Destination, len(destinations))
	copy(out, destinations)
	return out
}

// DestinationByCode resolves a destination code against the canonical list.
func DestinationByCode(code string) (Destination, bool) {
	for _, d := range destinations {
		if d.Code == code {
			return d, true
		}
	}
	return Destination{}, false
}
