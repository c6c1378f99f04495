package catalog

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kaido-imports/kaido/internal/domain"
)

var syncTime = time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC)

func fullCatalogRecord() domain.CatalogRecord {
	created := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	return domain.CatalogRecord{
		ID:           "car-0a1b2c3d4e5f",
		Brand:        "Nissan",
		Model:        "Skyline GT-R V-Spec",
		Year:         1995,
		Status:       "reserved",
		Price:        5800000,
		StockNumber:  "KD-1042",
		Transmission: "5MT",
		Drivetrain:   "awd",
		Horsepower:   280,
		Torque:       353,
		Color:        "Midnight Purple",
		Location:     "Yokohama",
		Description:  "One-owner BCNR33 with full service records.",
		Specs: domain.CatalogSpecs{
			Engine:          "RB26DETT",
			Displacement:    "2.6",
			Induction:       "twin-turbo",
			Power:           "280",
			Torque:          "353",
			ZeroToHundred:   "5.4s",
			TopSpeed:        "250 km/h",
			Weight:          "1540",
			Drivetrain:      "attesa e-ts",
			Transmission:    "5-speed manual",
			FuelType:        "Petrol",
			FuelConsumption: "12L/100km",
		},
		Maintenance: []domain.MaintenanceEntry{
			{Date: "2024-11-02", Description: "Timing belt replaced", Cost: "¥48,000"},
			{Date: "2025-02-18", Description: "Alignment"},
		},
		Images: []domain.CatalogImage{
			{URL: "https://cdn.example.com/1.jpg"},
			{URL: "https://cdn.example.com/2.jpg", IsPrimary: true, Caption: "front"},
			{URL: "https://cdn.example.com/3.jpg"},
		},
		Featured:     true,
		HotImport:    false,
		FreshArrival: true,
		RareUnit:     true,
		CreatedAt:    &created,
	}
}

func TestTransform_ScalarFields(t *testing.T) {
	out := Transform(fullCatalogRecord(), syncTime)
	v := out.Vehicle

	if v.SourceID != "car-0a1b2c3d4e5f" {
		t.Fatalf("unexpected source id: %s", v.SourceID)
	}
	if v.Make != "Nissan" || v.Model != "Skyline GT-R V-Spec" || v.Year != 1995 {
		t.Fatalf("unexpected identity fields: %+v", v)
	}
	if v.Status != domain.VehicleStatusReserved {
		t.Fatalf("expected reserved, got %s", v.Status)
	}
	if v.StockNumber != "KD-1042" {
		t.Fatalf("unexpected stock number: %s", v.StockNumber)
	}
	if !v.CreatedAt.Equal(time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at must come from the source on first transform, got %v", v.CreatedAt)
	}
	if !v.UpdatedAt.Equal(syncTime) {
		t.Fatalf("updated_at must be the sync time, got %v", v.UpdatedAt)
	}
}

func TestTransform_UnknownStatusDefaultsToAvailable(t *testing.T) {
	rec := fullCatalogRecord()
	rec.Status = "pending-auction"

	out := Transform(rec, syncTime)
	if out.Vehicle.Status != domain.VehicleStatusAvailable {
		t.Fatalf("expected available, got %s", out.Vehicle.Status)
	}
}

func TestTransform_SpecsCompleteAndSuffixed(t *testing.T) {
	out := Transform(fullCatalogRecord(), syncTime)

	want := []domain.VehicleSpec{
		{Category: "engine", Name: "Engine", Value: "RB26DETT"},
		{Category: "engine", Name: "Displacement", Value: "2.6L"},
		{Category: "engine", Name: "Induction", Value: "TWIN-TURBO"},
		{Category: "performance", Name: "Power", Value: "280HP"},
		{Category: "performance", Name: "Torque", Value: "353Nm"},
		{Category: "performance", Name: "0-100 km/h", Value: "5.4s"},
		{Category: "performance", Name: "Top Speed", Value: "250 km/h"},
		{Category: "chassis", Name: "Weight", Value: "1540kg"},
		{Category: "chassis", Name: "Drivetrain", Value: "ATTESA E-TS"},
		{Category: "chassis", Name: "Transmission", Value: "5-speed manual"},
		{Category: "fuel", Name: "Fuel Type", Value: "Petrol"},
		{Category: "fuel", Name: "Fuel Consumption", Value: "12L/100km"},
	}

	if diff := cmp.Diff(want, out.Specs); diff != "" {
		t.Fatalf("specs mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_AbsentSpecsProduceNoRows(t *testing.T) {
	rec := fullCatalogRecord()
	rec.Specs = domain.CatalogSpecs{Engine: "13B-REW"}

	out := Transform(rec, syncTime)
	if len(out.Specs) != 1 {
		t.Fatalf("expected a single sparse row, got %v", out.Specs)
	}
	if out.Specs[0].Value != "13B-REW" {
		t.Fatalf("unexpected row: %+v", out.Specs[0])
	}
}

func TestTransform_FeatureTagOrderFixed(t *testing.T) {
	rec := fullCatalogRecord()

	out := Transform(rec, syncTime)
	want := []string{"Featured", "Fresh Arrival", "Rare Unit"}
	if diff := cmp.Diff(want, out.Vehicle.Features); diff != "" {
		t.Fatalf("feature tags mismatch (-want +got):\n%s", diff)
	}

	rec.Featured = false
	rec.FreshArrival = false
	rec.RareUnit = false

	out = Transform(rec, syncTime)
	if out.Vehicle.Features == nil {
		t.Fatalf("feature list must be empty, not nil")
	}
	if len(out.Vehicle.Features) != 0 {
		t.Fatalf("expected no tags, got %v", out.Vehicle.Features)
	}
}

func TestTransform_DescriptionWithMaintenanceBlock(t *testing.T) {
	out := Transform(fullCatalogRecord(), syncTime)

	if out.Vehicle.Description == nil {
		t.Fatalf("expected description")
	}

	want := "One-owner BCNR33 with full service records.\n\n" +
		"2024-11-02: Timing belt replaced (¥48,000)\n" +
		"2025-02-18: Alignment"
	if *out.Vehicle.Description != want {
		t.Fatalf("description mismatch:\n%q\nwant:\n%q", *out.Vehicle.Description, want)
	}
}

func TestTransform_EmptyDescriptionBecomesNil(t *testing.T) {
	rec := fullCatalogRecord()
	rec.Description = "   "
	rec.Maintenance = nil

	out := Transform(rec, syncTime)
	if out.Vehicle.Description != nil {
		t.Fatalf("expected nil description, got %q", *out.Vehicle.Description)
	}
}

func TestTransform_StockNumberFallback(t *testing.T) {
	rec := fullCatalogRecord()
	rec.StockNumber = ""

	out := Transform(rec, syncTime)
	if out.Vehicle.StockNumber != "GEN-2C3D4E5F" {
		t.Fatalf("unexpected fallback stock number: %s", out.Vehicle.StockNumber)
	}

	rec.ID = "ab12"
	out = Transform(rec, syncTime)
	if out.Vehicle.StockNumber != "GEN-AB12" {
		t.Fatalf("short ids use the whole id: %s", out.Vehicle.StockNumber)
	}
}

func TestSelectPrimary(t *testing.T) {
	flagged := []domain.CatalogImage{
		{URL: "a"},
		{URL: "b", IsPrimary: true},
	}
	img, ok := SelectPrimary(flagged)
	if !ok || img.URL != "b" {
		t.Fatalf("expected flagged image, got %+v ok=%v", img, ok)
	}

	unflagged := []domain.CatalogImage{{URL: "a"}, {URL: "b"}}
	img, ok = SelectPrimary(unflagged)
	if !ok || img.URL != "a" {
		t.Fatalf("expected first image fallback, got %+v ok=%v", img, ok)
	}

	if _, ok := SelectPrimary(nil); ok {
		t.Fatalf("empty list must select nothing")
	}
}

func TestTransform_ImagePrimaryNormalized(t *testing.T) {
	rec := fullCatalogRecord()

	// Source carries two primary flags; storage must keep exactly one.
	rec.Images = []domain.CatalogImage{
		{URL: "1", IsPrimary: true},
		{URL: "2", IsPrimary: true},
		{URL: "3"},
	}

	out := Transform(rec, syncTime)

	primaries := 0
	for _, img := range out.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary, got %d", primaries)
	}
	if !out.Images[0].IsPrimary {
		t.Fatalf("first flagged image must win")
	}

	// No flags at all: first image becomes primary.
	rec.Images = []domain.CatalogImage{{URL: "1"}, {URL: "2"}}
	out = Transform(rec, syncTime)
	if !out.Images[0].IsPrimary || out.Images[1].IsPrimary {
		t.Fatalf("expected first-image fallback, got %+v", out.Images)
	}

	for i, img := range out.Images {
		if img.Position != i {
			t.Fatalf("position must follow source order: %+v", out.Images)
		}
	}
}
