//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package rental

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-rentalgen/internal/datagen"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
)

// City is a branch location with its reference coordinates.
type City struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Cities is the reference city table branches are seeded from, in order.
var Cities = []City{
	{"Abidjan", 5.3599, -4.0083},
	{"Cotonou", 5.0667, -0.55},
	{"Porto-Novo", -13.1167, -172.25},
	{"Brazzaville", -15.7833, 28.2167},
	{"Alger", 36.8189, 3.0573},
	{"Kigali", -1.9472, 30.0636},
	{"Bujumbura", -20.2006, 27.8828},
	{"Ouagadougou", -17.4667, 41.55},
	{"Dodoma", -13.4167, 32.5833},
	{"Bamako", -1.9472, 29.9722},
	{"Yaoundé", -1.9472, 29.9722},
	{"Bangui", -16.9167, 28.2167},
	{"Dakar", 14.7167, -17.4677},
	{"Lagos", 6.5244, 3.3792},
	{"Nairobi", -1.2864, 36.8172},
	{"Johannesburg", -26.2041, 28.0473},
	{"Kara", -1.9472, 29.9722},
	{"Lubumbashi", -16.9167, 28.2167},
	{"Mogadishu", -17.4667, 41.55},
	{"Kinshasa", -4.3333, 15.3333},
	{"Libreville", -1.9472, 29.9722},
	{"Mbabane", -1.9472, 29.9722},
	{"Tunis", -8.5167, 41.55},
	{"Cairo", 30.0444, 31.2357},
	{"Alexandria", 31.2001, 29.9187},
	{"Casablanca", 33.5731, -7.5898},
	{"Cape Town", -33.9249, 18.4241},
	{"Durban", -29.8587, 31.0218},
	{"Luanda", -8.8383, 13.2344},
	{"Accra", 5.6037, -0.1870},
	{"Addis Ababa", 9.0306, 38.7400},
	{"Pretoria", -25.7479, 28.2293},
	{"Dar es Salaam", -6.7924, 39.2083},
}

// Brands lists the manufacturers available per vehicle type.
var Brands = map[string][]string{
	TypeCar: {
		"Toyota", "Renault", "Skoda", "Citroën", "Citadine", "Kia",
		"Peugeot", "Volkswagen", "Opel", "Fiat", "Mercedes", "BMW",
		"Audi", "Clio", "Nissan", "Mazda", "Seat",
		"Ferrari", "Jaguar", "Hyundai", "Dacia",
		"Tesla", "Ford", "Chevrolet", "Cadillac",
		"Alfa Romeo", "Volvo", "Chery",
	},
	TypeMoto: {
		"Yamaha", "Honda", "Suzuki", "Wave",
		"Kawasaki", "Harley-Davidson",
		"Ducati", "Royal Enfield", "Bajaj Auto",
		"Triumph", "KTM", "CFMoto",
	},
	TypeBike: {
		"BMC", "Scott", "Trek",
		"Specialized", "Cannondale",
		"Giant Bicycles",
	},
}

// Manufacturing year range of the fleet.
const (
	minFleetYear = 2015
	maxFleetYear = 2023
)

// CatalogConfig sizes the static part of the dataset.
type CatalogConfig struct {
	Branches int
	Clients  int
	Vehicles int

	// Start and End bound the simulation window.
	Start time.Time
	End   time.Time
}

// GenerateCatalog creates branches, clients and vehicles in that order.
func GenerateCatalog(f *datagen.Faker, cfg CatalogConfig) (*Dataset, error) {
	if cfg.Branches < 1 || cfg.Branches > len(Cities) {
		return nil, fmt.Errorf("branches must be between 1 and %d, got %d", len(Cities), cfg.Branches)
	}
	if !cfg.Start.Before(cfg.End) {
		return nil, fmt.Errorf("simulation start %s must precede end %s",
			cfg.Start.Format(time.DateOnly), cfg.End.Format(time.DateOnly))
	}

	ds := &Dataset{}
	ds.Branches = GenerateBranches(f, cfg.Branches)
	ds.Clients = GenerateClients(f, ds.Branches, cfg.Clients, cfg.Start, cfg.End)
	ds.Vehicles = GenerateVehicles(f, ds.Branches, cfg.Vehicles, cfg.Start)
	return ds, nil
}

// GenerateBranches creates n branches from the city table with jittered
// coordinates.
func GenerateBranches(f *datagen.Faker, n int) []Branch {
	logging.Info().Int("count", n).Msg("Generating branches")
	branches := make([]Branch, 0, max(n, 0))
	for i, c := range Cities[:max(0, min(n, len(Cities)))] {
		branches = append(branches, Branch{
			BranchID:     int64(i + 1),
			Nom:          "Agence " + c.Name,
			Localisation: c.Name,
			Latitude:     c.Latitude + f.Float64(-0.1, 0.1),
			Longitude:    c.Longitude + f.Float64(-0.1, 0.1),
		})
	}
	return branches
}

// GenerateClients creates n clients whose creation dates are spread evenly
// across [start, end] with ±30 days of jitter, never later than end.
func GenerateClients(f *datagen.Faker, branches []Branch, n int, start, end time.Time) []Client {
	logging.Info().Int("count", n).Msg("Generating clients")
	clients := make([]Client, 0, n)
	if n == 0 || len(branches) == 0 {
		return clients
	}

	windowDays := int(end.Sub(start).Hours() / 24)
	daysPerClient := float64(windowDays) / float64(n)
	seen := make(map[string]struct{}, n)

	for i := 1; i <= n; i++ {
		branch := datagen.Choose(f, branches)
		target := start.AddDate(0, 0, int(float64(i)*daysPerClient))
		created := target.AddDate(0, 0, f.Int(-30, 30))
		if created.After(end) {
			created = end
		}

		clients = append(clients, Client{
			ClientID:     int64(i),
			Nom:          f.LastName(),
			Prenom:       f.FirstName(),
			Email:        uniqueEmail(f, seen, i),
			Telephone:    f.Phone(),
			Adresse:      f.Street() + ", " + branch.Localisation,
			DateCreation: created,
			BranchID:     branch.BranchID,
		})

		if i%100000 == 0 {
			logging.Debug().Int("clients", i).Int("total", n).Msg("Generating clients")
		}
	}
	return clients
}

// uniqueEmail draws emails until an unused one appears, then falls back to
// suffixing the client index.
func uniqueEmail(f *datagen.Faker, seen map[string]struct{}, i int) string {
	for attempt := 0; attempt < 5; attempt++ {
		email := f.Email()
		if _, dup := seen[email]; !dup {
			seen[email] = struct{}{}
			return email
		}
	}
	email := fmt.Sprintf("client%d.%s", i, f.Email())
	seen[email] = struct{}{}
	return email
}

// GenerateVehicles creates n available vehicles put into service between
// January 1st of their manufacturing year and two years after start.
func GenerateVehicles(f *datagen.Faker, branches []Branch, n int, start time.Time) []Vehicle {
	logging.Info().Int("count", n).Msg("Generating vehicles")
	vehicles := make([]Vehicle, 0, n)
	if len(branches) == 0 {
		return vehicles
	}

	serviceLimit := start.AddDate(0, 0, 365*2)
	for i := 1; i <= n; i++ {
		vType := datagen.Choose(f, VehicleTypes)
		brand := datagen.Choose(f, Brands[vType])
		year := f.Int(minFleetYear, maxFleetYear)

		vehicles = append(vehicles, Vehicle{
			VehiculeID:        int64(i),
			Type:              vType,
			Marque:            brand,
			Modele:            fmt.Sprintf("%s %s%s", brand, f.Upper(2), f.Digits(2)),
			AnneeFabrication:  int32(year),
			Immatriculation:   f.LicensePlate(),
			Statut:            StatusAvailable,
			BranchID:          datagen.Choose(f, branches).BranchID,
			DateMiseEnService: f.DateRange(time.Date(year, 1, 1, 0, 0, 0, 0, start.Location()), serviceLimit),
		})
	}
	return vehicles
}
