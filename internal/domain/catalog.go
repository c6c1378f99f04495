package domain

import "time"

// CatalogRecord is the vehicle listing as the headless content store holds it.
// This service only reads it; the CMS owns every field.
type CatalogRecord struct {
	ID          string `json:"_id"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Condition   string `json:"condition,omitempty"`
	Status      string `json:"status"`
	Price       int64  `json:"price"`
	StockNumber string `json:"stockNumber,omitempty"`

	Transmission string `json:"transmission,omitempty"`
	Drivetrain   string `json:"drivetrain,omitempty"`
	Horsepower   int    `json:"horsepower,omitempty"`
	Torque       int    `json:"torque,omitempty"`
	Color        string `json:"color,omitempty"`
	Location     string `json:"location,omitempty"`

	Description string `json:"description,omitempty"`

	Specs       CatalogSpecs       `json:"specs"`
	Maintenance []MaintenanceEntry `json:"maintenanceHistory,omitempty"`
	Images      []CatalogImage     `json:"images,omitempty"`

	Featured     bool `json:"featured,omitempty"`
	HotImport    bool `json:"hotImport,omitempty"`
	FreshArrival bool `json:"freshArrival,omitempty"`
	RareUnit     bool `json:"rareUnit,omitempty"`

	CreatedAt *time.Time `json:"_createdAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// CatalogSpecs is the nested spec block on a catalog record. Every field is
// optional; absent fields must produce no destination spec row.
type CatalogSpecs struct {
	Engine          string `json:"engine,omitempty"`
	Displacement    string `json:"displacement,omitempty"`
	Induction       string `json:"induction,omitempty"`
	Power           string `json:"power,omitempty"`
	Torque          string `json:"torque,omitempty"`
	ZeroToHundred   string `json:"zeroToHundred,omitempty"`
	TopSpeed        string `json:"topSpeed,omitempty"`
	Weight          string `json:"weight,omitempty"`
	Drivetrain      string `json:"drivetrain,omitempty"`
	Transmission    string `json:"transmission,omitempty"`
	FuelType        string `json:"fuelType,omitempty"`
	FuelConsumption string `json:"fuelConsumption,omitempty"`
}

type MaintenanceEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Cost        string `json:"cost,omitempty"`
}

type CatalogImage struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}
