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
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-rentalgen/internal/datagen"
	"github.com/pgEdge/pgedge-rentalgen/internal/season"
)

func flatProfile(t *testing.T) season.Profile {
	t.Helper()
	p, err := season.Get("flat", "UTC")
	require.NoError(t, err)
	return p
}

// smallDataset has one branch, two clients and two vehicles, all usable
// from 2024-01-01 onward.
func smallDataset() *Dataset {
	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	return &Dataset{
		Branches: []Branch{{BranchID: 1, Nom: "Agence Dakar", Localisation: "Dakar"}},
		Clients: []Client{
			{ClientID: 1, Nom: "Diop", Prenom: "Awa", Email: "awa@example.com", DateCreation: created, BranchID: 1},
			{ClientID: 2, Nom: "Ba", Prenom: "Moussa", Email: "moussa@example.com", DateCreation: created, BranchID: 1},
		},
		Vehicles: []Vehicle{
			{VehiculeID: 1, Type: TypeCar, Marque: "Toyota", Statut: StatusAvailable, BranchID: 1, DateMiseEnService: created},
			{VehiculeID: 2, Type: TypeMoto, Marque: "Honda", Statut: StatusAvailable, BranchID: 1, DateMiseEnService: created},
		},
	}
}

func TestSimulateDaySmallScenario(t *testing.T) {
	ds := smallDataset()
	opts := DefaultOptions()
	opts.MaintenanceRate = 0
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(7), ds, flatProfile(t), start, opts)
	require.NoError(t, err)

	day := start.AddDate(0, 0, 1)
	require.NoError(t, sim.SimulateDay(day, 2))
	assert.False(t, sim.MaintainDay(day))

	require.Len(t, ds.Locations, 2)
	require.Len(t, ds.Factures, 2)
	assert.Empty(t, ds.Entretiens)

	for i, loc := range ds.Locations {
		assert.Equal(t, int64(i+1), loc.LocationID)
		assert.Equal(t, day, loc.DateDebut)
		assert.True(t, loc.DateDebut.Before(loc.DateFin))
		assert.Equal(t, RentalCompleted, loc.Statut)
		assert.Contains(t, PaymentMethods, loc.ModePaiement)

		f := ds.Factures[i]
		assert.Equal(t, loc.LocationID, f.LocationID)
		assert.Equal(t, loc.PrixTotal, f.Montant)
		assert.Equal(t, day, f.DateFacture)

		v := ds.Vehicles[loc.VehiculeID-1]
		assert.Equal(t, StatusRented, v.Statut)
		assert.Greater(t, v.Kilometrage, int64(0))
	}
}

func TestSimulateDaySkipsWithoutClients(t *testing.T) {
	ds := smallDataset()
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(1), ds, flatProfile(t), start, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, sim.SimulateDay(start, 10))
	assert.Empty(t, ds.Locations)
	assert.Empty(t, ds.Factures)
}

func TestSimulateDayCapsAtEligibleVehicles(t *testing.T) {
	ds := smallDataset()
	ds.Vehicles[1].Statut = StatusOutOfService
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(3), ds, flatProfile(t), start, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, sim.SimulateDay(start, 15))
	require.Len(t, ds.Locations, 1)
	assert.Equal(t, int64(1), ds.Locations[0].VehiculeID)
}

func TestSimulateDayRejectsUnknownType(t *testing.T) {
	ds := smallDataset()
	ds.Vehicles[0].Type = "camion"
	ds.Vehicles = ds.Vehicles[:1]
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(3), ds, flatProfile(t), start, DefaultOptions())
	require.NoError(t, err)

	assert.Error(t, sim.SimulateDay(start, 1))
}

func TestMaintainDay(t *testing.T) {
	ds := smallDataset()
	opts := DefaultOptions()
	opts.MaintenanceRate = 1
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(11), ds, flatProfile(t), start, opts)
	require.NoError(t, err)

	for i := range 20 {
		assert.True(t, sim.MaintainDay(start.AddDate(0, 0, i)))
	}
	require.Len(t, ds.Entretiens, 20)

	for i, e := range ds.Entretiens {
		assert.Equal(t, int64(i+1), e.EntretienID)
		assert.Contains(t, MaintenanceTypes, e.TypeEntretien)
		assert.GreaterOrEqual(t, e.Cout, 5000.0)
		assert.LessOrEqual(t, e.Cout, 50000.0)
		assert.Equal(t, e.Cout, RoundCents(e.Cout))
		assert.NotEmpty(t, e.Description)
	}
	for _, v := range ds.Vehicles {
		assert.Contains(t, []string{StatusAvailable, StatusOutOfService}, v.Statut)
	}
}

func TestDailyRentalCount(t *testing.T) {
	ds := smallDataset()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sim, err := NewSimulator(datagen.NewFakerWithSeed(5), ds, flatProfile(t), start, DefaultOptions())
	require.NoError(t, err)

	for i := range 500 {
		n := sim.DailyRentalCount(start.AddDate(0, 0, i))
		assert.GreaterOrEqual(t, n, 4)
		assert.LessOrEqual(t, n, 17)
	}
}

func TestNewSimulatorValidation(t *testing.T) {
	start := time.Now()
	f := datagen.NewFakerWithSeed(1)

	_, err := NewSimulator(f, nil, flatProfile(t), start, DefaultOptions())
	assert.Error(t, err)

	_, err = NewSimulator(f, smallDataset(), nil, start, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.MaxDaily = 1
	_, err = NewSimulator(f, smallDataset(), flatProfile(t), start, opts)
	assert.Error(t, err)
}

func TestReturnDue(t *testing.T) {
	ds := smallDataset()
	ds.Vehicles = ds.Vehicles[:1]
	opts := DefaultOptions()
	opts.ReturnVehicles = true
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(9), ds, flatProfile(t), start, opts)
	require.NoError(t, err)

	require.NoError(t, sim.SimulateDay(start, 1))
	require.Equal(t, StatusRented, ds.Vehicles[0].Statut)

	end := ds.Locations[0].DateFin
	assert.Equal(t, 0, sim.ReturnDue(end.Add(-time.Minute)))
	assert.Equal(t, StatusRented, ds.Vehicles[0].Statut)
	assert.Equal(t, 1, sim.ReturnDue(end))
	assert.Equal(t, StatusAvailable, ds.Vehicles[0].Statut)
}

func generateHistory(t *testing.T, seed uint64, now time.Time, opts Options) *Dataset {
	t.Helper()
	f := datagen.NewFakerWithSeed(seed)
	start := now.AddDate(0, 0, -120)

	ds, err := GenerateCatalog(f, CatalogConfig{
		Branches: 3,
		Clients:  40,
		Vehicles: 25,
		Start:    start,
		End:      now,
	})
	require.NoError(t, err)

	sim, err := NewSimulator(f, ds, flatProfile(t), start, opts)
	require.NoError(t, err)
	require.NoError(t, sim.Run(now))
	return ds
}

func TestRunInvariants(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	opts := DefaultOptions()
	opts.ReturnVehicles = true
	ds := generateHistory(t, 42, now, opts)

	require.NotEmpty(t, ds.Locations)
	require.Len(t, ds.Factures, len(ds.Locations))

	vehicles := make(map[int64]Vehicle)
	for _, v := range ds.Vehicles {
		vehicles[v.VehiculeID] = v
		assert.Contains(t, Statuses, v.Statut)
	}
	clients := make(map[int64]Client)
	for _, c := range ds.Clients {
		clients[c.ClientID] = c
		assert.False(t, c.DateCreation.After(now))
	}

	start := now.AddDate(0, 0, -120)
	for i, loc := range ds.Locations {
		assert.Equal(t, int64(i+1), loc.LocationID)
		assert.True(t, loc.DateDebut.Before(loc.DateFin))

		v, ok := vehicles[loc.VehiculeID]
		require.True(t, ok, "location %d references unknown vehicle", loc.LocationID)
		assert.True(t, v.DateMiseEnService.Before(loc.DateDebut))

		c, ok := clients[loc.ClientID]
		require.True(t, ok, "location %d references unknown client", loc.LocationID)
		assert.True(t, c.DateCreation.Before(loc.DateDebut))

		hours := int(loc.Duration() / time.Hour)
		assert.Contains(t, DurationBuckets(v.Type), hours)

		price, err := Price(v.Type, loc.Duration(), loc.DateDebut, start)
		require.NoError(t, err)
		assert.Equal(t, price, loc.PrixTotal)

		f := ds.Factures[i]
		assert.Equal(t, loc.LocationID, f.LocationID)
		if f.Paid() {
			require.NotNil(t, f.ModePaiement)
			assert.Equal(t, loc.ModePaiement, *f.ModePaiement)
		} else {
			assert.Nil(t, f.ModePaiement)
			assert.Equal(t, PaymentUnpaid, f.StatutPaiement)
		}
	}

	for i, e := range ds.Entretiens {
		assert.Equal(t, int64(i+1), e.EntretienID)
		_, ok := vehicles[e.VehiculeID]
		assert.True(t, ok)
	}
}

func TestRunIsReproducible(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	a := generateHistory(t, 1234, now, DefaultOptions())
	b := generateHistory(t, 1234, now, DefaultOptions())
	assert.Equal(t, a, b)
}

func TestOdometerNonDecreasing(t *testing.T) {
	ds := smallDataset()
	opts := DefaultOptions()
	opts.ReturnVehicles = true
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sim, err := NewSimulator(datagen.NewFakerWithSeed(21), ds, flatProfile(t), start, opts)
	require.NoError(t, err)

	prev := []int64{0, 0}
	for i := range 60 {
		day := start.AddDate(0, 0, i)
		sim.ReturnDue(day)
		require.NoError(t, sim.SimulateDay(day, sim.DailyRentalCount(day)))
		sim.MaintainDay(day)
		for j, v := range ds.Vehicles {
			assert.GreaterOrEqual(t, v.Kilometrage, prev[j])
			prev[j] = v.Kilometrage
		}
	}
}

func TestGenerateCatalog(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -365)

	ds, err := GenerateCatalog(datagen.NewFakerWithSeed(99), CatalogConfig{
		Branches: 5, Clients: 200, Vehicles: 50, Start: start, End: now,
	})
	require.NoError(t, err)
	require.Len(t, ds.Branches, 5)
	require.Len(t, ds.Clients, 200)
	require.Len(t, ds.Vehicles, 50)

	for i, b := range ds.Branches {
		assert.Equal(t, int64(i+1), b.BranchID)
		assert.Equal(t, "Agence "+Cities[i].Name, b.Nom)
		assert.InDelta(t, Cities[i].Latitude, b.Latitude, 0.1)
		assert.InDelta(t, Cities[i].Longitude, b.Longitude, 0.1)
	}

	emails := make(map[string]bool)
	for i, c := range ds.Clients {
		assert.Equal(t, int64(i+1), c.ClientID)
		assert.False(t, emails[c.Email], "duplicate email %s", c.Email)
		emails[c.Email] = true
		assert.False(t, c.DateCreation.After(now))
		assert.True(t, c.BranchID >= 1 && c.BranchID <= 5)
	}

	model := regexp.MustCompile(`^.+ [A-Z]{2}[0-9]{2}$`)
	plate := regexp.MustCompile(`^[A-Z]{2}-[0-9]{3}-[A-Z]{2}$`)
	for _, v := range ds.Vehicles {
		assert.Contains(t, VehicleTypes, v.Type)
		assert.True(t, slices.Contains(Brands[v.Type], v.Marque))
		assert.Regexp(t, model, v.Modele)
		assert.Regexp(t, plate, v.Immatriculation)
		assert.Equal(t, StatusAvailable, v.Statut)
		assert.Zero(t, v.Kilometrage)
		assert.True(t, v.AnneeFabrication >= minFleetYear && v.AnneeFabrication <= maxFleetYear)
	}
}

func TestGenerateCatalogValidation(t *testing.T) {
	now := time.Now()
	f := datagen.NewFakerWithSeed(1)

	_, err := GenerateCatalog(f, CatalogConfig{Branches: 0, Start: now.AddDate(-1, 0, 0), End: now})
	assert.Error(t, err)

	_, err = GenerateCatalog(f, CatalogConfig{Branches: len(Cities) + 1, Start: now.AddDate(-1, 0, 0), End: now})
	assert.Error(t, err)

	_, err = GenerateCatalog(f, CatalogConfig{Branches: 1, Start: now, End: now})
	assert.Error(t, err)
}
