package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
)

// Transformed is the relational draft for one catalog record. Vehicle.ID is
// left empty; the syncer assigns it (fresh uuid on create, existing id on
// re-sync) and stamps it onto the children.
type Transformed struct {
	Vehicle domain.Vehicle
	Images  []domain.VehicleImage
	Specs   []domain.VehicleSpec
}

// Transform maps a catalog record into the relational schema. Pure except for
// the caller-supplied sync time.
func Transform(rec domain.CatalogRecord, syncTime time.Time) Transformed {
	createdAt := syncTime
	if rec.CreatedAt != nil {
		createdAt = *rec.CreatedAt
	}

	v := domain.Vehicle{
		SourceID:     rec.ID,
		Make:         rec.Brand,
		Model:        rec.Model,
		Year:         rec.Year,
		Price:        rec.Price,
		StockNumber:  stockNumber(rec),
		Status:       domain.VehicleStatusFromCatalog(rec.Status),
		Transmission: rec.Transmission,
		Drivetrain:   rec.Drivetrain,
		Horsepower:   rec.Horsepower,
		Torque:       rec.Torque,
		Color:        rec.Color,
		Location:     rec.Location,
		Description:  renderDescription(rec.Description, rec.Maintenance),
		Features:     featureTags(rec),
		CreatedAt:    createdAt,
		UpdatedAt:    syncTime,
	}

	return Transformed{
		Vehicle: v,
		Images:  transformImages(rec.Images),
		Specs:   flattenSpecs(rec.Specs),
	}
}

// SelectPrimary picks the image that should act as the vehicle's primary: the
// first explicitly flagged one when present, else the first in source order.
func SelectPrimary(images []domain.CatalogImage) (domain.CatalogImage, bool) {
	idx := primaryIndex(images)
	if idx < 0 {
		return domain.CatalogImage{}, false
	}
	return images[idx], true
}

func primaryIndex(images []domain.CatalogImage) int {
	for i, img := range images {
		if img.IsPrimary {
			return i
		}
	}
	if len(images) > 0 {
		return 0
	}
	return -1
}

// transformImages keeps source order and normalizes the primary flag so that
// exactly one stored image is primary whenever any images exist. The source
// can carry zero or several primary flags; we don't trust it.
func transformImages(images []domain.CatalogImage) []domain.VehicleImage {
	idx := primaryIndex(images)

	out := make([]domain.VehicleImage, 0, len(images))
	for i, img := range images {
		out = append(out, domain.VehicleImage{
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: i == idx,
			Position:  i,
		})
	}

	return out
}

// flattenSpecs turns the nested spec block into sparse {category, name, value}
// rows. Absent fields produce no row. Order is fixed.
func flattenSpecs(specs domain.CatalogSpecs) []domain.VehicleSpec {
	var out []domain.VehicleSpec

	add := func(category, name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		out = append(out, domain.VehicleSpec{
			Category: category,
			Name:     name,
			Value:    value,
		})
	}

	add("engine", "Engine", specs.Engine)
	if specs.Displacement != "" {
		add("engine", "Displacement", specs.Displacement+"L")
	}
	add("engine", "Induction", strings.ToUpper(specs.Induction))

	if specs.Power != "" {
		add("performance", "Power", specs.Power+"HP")
	}
	if specs.Torque != "" {
		add("performance", "Torque", specs.Torque+"Nm")
	}
	add("performance", "0-100 km/h", specs.ZeroToHundred)
	add("performance", "Top Speed", specs.TopSpeed)

	if specs.Weight != "" {
		add("chassis", "Weight", specs.Weight+"kg")
	}
	add("chassis", "Drivetrain", strings.ToUpper(specs.Drivetrain))
	add("chassis", "Transmission", specs.Transmission)

	add("fuel", "Fuel Type", specs.FuelType)
	add("fuel", "Fuel Consumption", specs.FuelConsumption)

	return out
}

// featureTags builds the marketing tag list in fixed order. Empty list, never
// nil, when no flags are set.
func featureTags(rec domain.CatalogRecord) []string {
	tags := []string{}
	if rec.Featured {
		tags = append(tags, "Featured")
	}
	if rec.HotImport {
		tags = append(tags, "Hot Import")
	}
	if rec.FreshArrival {
		tags = append(tags, "Fresh Arrival")
	}
	if rec.RareUnit {
		tags = append(tags, "Rare Unit")
	}
	return tags
}

// renderDescription joins the free-text description with the rendered
// maintenance history, separated by a blank line. Returns nil when the result
// trims to nothing.
func renderDescription(description string, entries []domain.MaintenanceEntry) *string {
	var parts []string

	if strings.TrimSpace(description) != "" {
		parts = append(parts, strings.TrimSpace(description))
	}

	if block := renderMaintenance(entries); block != "" {
		parts = append(parts, block)
	}

	joined := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if joined == "" {
		return nil
	}
	return &joined
}

func renderMaintenance(entries []domain.MaintenanceEntry) string {
	var lines []string

	for _, e := range entries {
		if e.Date == "" && e.Description == "" {
			continue
		}

		line := fmt.Sprintf("%s: %s", e.Date, e.Description)
		if strings.TrimSpace(e.Cost) != "" {
			line = fmt.Sprintf("%s (%s)", line, e.Cost)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// stockNumber returns the source stock number, or a deterministic fallback
// derived from the source id when the listing never got one.
func stockNumber(rec domain.CatalogRecord) string {
	if strings.TrimSpace(rec.StockNumber) != "" {
		return rec.StockNumber
	}

	id := rec.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "GEN-" + strings.ToUpper(id)
}
