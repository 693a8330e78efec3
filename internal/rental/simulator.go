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
	"math"
	"sort"
	"time"

	"github.com/pgEdge/pgedge-rentalgen/internal/datagen"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/season"
)

// Options tunes the simulator's random rates.
type Options struct {
	// MaintenanceRate is the daily probability of one maintenance event.
	MaintenanceRate float64

	// PaidRate is the probability an invoice is paid.
	PaidRate float64

	// OutOfServiceRate is the probability a maintained vehicle is retired.
	OutOfServiceRate float64

	// MinDaily and MaxDaily bound the base daily rental count.
	MinDaily int
	MaxDaily int

	// ReturnVehicles makes rented vehicles available again once their
	// latest rental has ended.
	ReturnVehicles bool
}

// DefaultOptions returns the default simulation rates.
func DefaultOptions() Options {
	return Options{
		MaintenanceRate:  0.15,
		PaidRate:         0.85,
		OutOfServiceRate: 0.20,
		MinDaily:         5,
		MaxDaily:         15,
	}
}

// Simulator advances a Dataset one day at a time, producing rentals,
// invoices and maintenance events. It is not safe for concurrent use.
type Simulator struct {
	faker   *datagen.Faker
	profile season.Profile
	opts    Options
	start   time.Time
	ds      *Dataset

	// clientsByDate holds client indexes sorted by creation date.
	clientsByDate []int

	// returnAt is the end of the latest rental per vehicle index.
	returnAt map[int]time.Time
}

// NewSimulator creates a simulator over a catalog whose window begins at
// start. The dataset's rental, invoice and maintenance collections are
// appended to in place.
func NewSimulator(f *datagen.Faker, ds *Dataset, profile season.Profile, start time.Time, opts Options) (*Simulator, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if profile == nil {
		return nil, fmt.Errorf("season profile is required")
	}
	if opts.MinDaily < 0 || opts.MaxDaily < opts.MinDaily {
		return nil, fmt.Errorf("invalid daily range [%d, %d]", opts.MinDaily, opts.MaxDaily)
	}

	s := &Simulator{
		faker:    f,
		profile:  profile,
		opts:     opts,
		start:    start,
		ds:       ds,
		returnAt: make(map[int]time.Time),
	}

	s.clientsByDate = make([]int, len(ds.Clients))
	for i := range ds.Clients {
		s.clientsByDate[i] = i
	}
	sort.SliceStable(s.clientsByDate, func(a, b int) bool {
		return ds.Clients[s.clientsByDate[a]].DateCreation.Before(ds.Clients[s.clientsByDate[b]].DateCreation)
	})

	return s, nil
}

// Start returns the beginning of the simulation window.
func (s *Simulator) Start() time.Time {
	return s.start
}

// Dataset returns the dataset being simulated.
func (s *Simulator) Dataset() *Dataset {
	return s.ds
}

// Run simulates every day from the window start while the day is before now.
func (s *Simulator) Run(now time.Time) error {
	logging.Info().
		Str("start", s.start.Format(time.DateOnly)).
		Str("end", now.Format(time.DateOnly)).
		Str("profile", s.profile.Name()).
		Msg("Simulating rental history")

	days := 0
	for day := s.start; day.Before(now); day = day.AddDate(0, 0, 1) {
		if s.opts.ReturnVehicles {
			s.ReturnDue(day)
		}
		if err := s.SimulateDay(day, s.DailyRentalCount(day)); err != nil {
			return fmt.Errorf("simulate %s: %w", day.Format(time.DateOnly), err)
		}
		s.MaintainDay(day)

		days++
		if days%365 == 0 {
			logging.Debug().
				Int("days", days).
				Int("locations", len(s.ds.Locations)).
				Msg("Simulation progress")
		}
	}

	logging.Info().
		Int("days", days).
		Int("locations", len(s.ds.Locations)).
		Int("factures", len(s.ds.Factures)).
		Int("entretiens", len(s.ds.Entretiens)).
		Msg("Simulation complete")
	return nil
}

// DailyRentalCount draws the target number of rentals for a day:
// round(randint(min, max) * (profile factor + uniform(-0.1, 0.1))).
func (s *Simulator) DailyRentalCount(day time.Time) int {
	base := s.faker.Int(s.opts.MinDaily, s.opts.MaxDaily)
	factor := s.profile.Factor(day) + s.faker.Float64(-0.1, 0.1)
	n := int(math.Round(float64(base) * factor))
	if n < 0 {
		return 0
	}
	return n
}

// SimulateDay creates up to n rentals starting on day. The eligible vehicle
// pool is computed once, so the same vehicle may be drawn more than once.
func (s *Simulator) SimulateDay(day time.Time, n int) error {
	vehicles := s.eligibleVehicles(day)
	clients := s.eligibleClients(day)
	if len(clients) == 0 {
		return nil
	}

	for range min(n, len(vehicles)) {
		vi := datagen.Choose(s.faker, vehicles)
		ci := datagen.Choose(s.faker, clients)
		if err := s.rent(day, vi, ci); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) rent(day time.Time, vi, ci int) error {
	vehicle := &s.ds.Vehicles[vi]
	client := s.ds.Clients[ci]

	hours := datagen.Choose(s.faker, DurationBuckets(vehicle.Type))
	duration := time.Duration(hours) * time.Hour
	price, err := Price(vehicle.Type, duration, day, s.start)
	if err != nil {
		return fmt.Errorf("vehicle %d: %w", vehicle.VehiculeID, err)
	}

	loc := Location{
		LocationID:   int64(len(s.ds.Locations) + 1),
		ClientID:     client.ClientID,
		VehiculeID:   vehicle.VehiculeID,
		DateDebut:    day,
		DateFin:      day.Add(duration),
		PrixTotal:    price,
		Statut:       RentalCompleted,
		ModePaiement: datagen.Choose(s.faker, PaymentMethods),
	}
	s.ds.Locations = append(s.ds.Locations, loc)

	facture := Facture{
		FactureID:      int64(len(s.ds.Factures) + 1),
		LocationID:     loc.LocationID,
		DateFacture:    day,
		Montant:        price,
		StatutPaiement: PaymentUnpaid,
	}
	if s.faker.Chance(s.opts.PaidRate) {
		method := loc.ModePaiement
		facture.ModePaiement = &method
		facture.StatutPaiement = PaymentPaid
	}
	s.ds.Factures = append(s.ds.Factures, facture)

	vehicle.Statut = StatusRented
	vehicle.Kilometrage += int64(s.faker.Int(10, 300))
	if loc.DateFin.After(s.returnAt[vi]) {
		s.returnAt[vi] = loc.DateFin
	}
	return nil
}

// MaintainDay sends one random vehicle through maintenance with the
// configured daily probability. It reports whether an event occurred.
func (s *Simulator) MaintainDay(day time.Time) bool {
	if len(s.ds.Vehicles) == 0 || !s.faker.Chance(s.opts.MaintenanceRate) {
		return false
	}

	vi := s.faker.Int(0, len(s.ds.Vehicles)-1)
	vehicle := &s.ds.Vehicles[vi]
	vehicle.Statut = StatusMaintenance

	s.ds.Entretiens = append(s.ds.Entretiens, Entretien{
		EntretienID:   int64(len(s.ds.Entretiens) + 1),
		VehiculeID:    vehicle.VehiculeID,
		DateEntretien: day,
		TypeEntretien: datagen.Choose(s.faker, MaintenanceTypes),
		Description:   s.faker.Sentence(8),
		Cout:          RoundCents(s.faker.Float64(5000, 50000)),
	})

	// Repair time is drawn to keep the random stream aligned; the vehicle
	// leaves maintenance the same day.
	_ = s.faker.Int(1, 7)

	if s.faker.Chance(s.opts.OutOfServiceRate) {
		vehicle.Statut = StatusOutOfService
	} else {
		vehicle.Statut = StatusAvailable
	}
	delete(s.returnAt, vi)
	return true
}

// ReturnDue makes rented vehicles whose latest rental ended by day
// available again.
func (s *Simulator) ReturnDue(day time.Time) int {
	returned := 0
	for vi, end := range s.returnAt {
		if end.After(day) {
			continue
		}
		if v := &s.ds.Vehicles[vi]; v.Statut == StatusRented {
			v.Statut = StatusAvailable
			returned++
		}
		delete(s.returnAt, vi)
	}
	return returned
}

func (s *Simulator) eligibleVehicles(day time.Time) []int {
	var eligible []int
	for i, v := range s.ds.Vehicles {
		if v.Statut == StatusAvailable && v.DateMiseEnService.Before(day) {
			eligible = append(eligible, i)
		}
	}
	return eligible
}

// eligibleClients returns the indexes of clients created strictly before day.
func (s *Simulator) eligibleClients(day time.Time) []int {
	n := sort.Search(len(s.clientsByDate), func(i int) bool {
		return !s.ds.Clients[s.clientsByDate[i]].DateCreation.Before(day)
	})
	return s.clientsByDate[:n]
}
