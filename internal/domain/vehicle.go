package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusReserved  VehicleStatus = "reserved"
	VehicleStatusSold      VehicleStatus = "sold"
)

// VehicleStatusFromCatalog maps the catalog status string onto the fixed enum.
// Unrecognized values fall back to "available".
func VehicleStatusFromCatalog(s string) VehicleStatus {
	switch VehicleStatus(s) {
	case VehicleStatusAvailable, VehicleStatusReserved, VehicleStatusSold:
		return VehicleStatus(s)
	default:
		return VehicleStatusAvailable
	}
}

// Vehicle is the relational copy of a catalog record. At most one row exists
// per distinct SourceID.
type Vehicle struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`

	Make        string        `json:"make"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Price       int64         `json:"price"`
	StockNumber string        `json:"stock_number"`
	Status      VehicleStatus `json:"status"`

	Transmission string `json:"transmission,omitempty"`
	Drivetrain   string `json:"drivetrain,omitempty"`
	Horsepower   int    `json:"horsepower,omitempty"`
	Torque       int    `json:"torque,omitempty"`
	Color        string `json:"color,omitempty"`
	Location     string `json:"location,omitempty"`

	Description *string  `json:"description,omitempty"`
	Features    []string `json:"features"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleImage is owned by exactly one Vehicle and fully regenerated on every
// sync. Exactly one image per vehicle is primary when any images exist.
type VehicleImage struct {
	VehicleID string `json:"vehicle_id"`
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	Position  int    `json:"position"`
}

// VehicleSpec is a flattened {category, name, value} triple from the catalog
// record's nested specs block. Owned by exactly one Vehicle, fully regenerated
// on every sync.
type VehicleSpec struct {
	VehicleID string `json:"vehicle_id"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}
