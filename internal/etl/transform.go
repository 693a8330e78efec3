//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package etl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
)

// ShapeError reports rows lacking a field the transform requires.
type ShapeError struct {
	Table   string
	Missing []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Table, strings.Join(e.Missing, ", "))
}

// shapeCheck collects the names of required fields found empty.
type shapeCheck struct {
	table   string
	missing []string
}

func (c *shapeCheck) require(name string, present bool) {
	if !present && !slices.Contains(c.missing, name) {
		c.missing = append(c.missing, name)
	}
}

func (c *shapeCheck) err() error {
	if len(c.missing) == 0 {
		return nil
	}
	return &ShapeError{Table: c.table, Missing: c.missing}
}

// BuildDimClient copies each client with client_key = client_id.
func BuildDimClient(clients []rental.Client) []DimClient {
	rows := make([]DimClient, len(clients))
	for i, c := range clients {
		rows[i] = DimClient{
			ClientKey:    c.ClientID,
			ClientID:     c.ClientID,
			Nom:          c.Nom,
			Prenom:       c.Prenom,
			Email:        c.Email,
			Telephone:    c.Telephone,
			Adresse:      c.Adresse,
			DateCreation: c.DateCreation,
			BranchID:     c.BranchID,
		}
	}
	return rows
}

// BuildDimVehicule copies each vehicle with vehicule_key = vehicule_id.
func BuildDimVehicule(vehicles []rental.Vehicle) []DimVehicule {
	rows := make([]DimVehicule, len(vehicles))
	for i, v := range vehicles {
		rows[i] = DimVehicule{
			VehiculeKey:      v.VehiculeID,
			VehiculeID:       v.VehiculeID,
			Type:             v.Type,
			Marque:           v.Marque,
			Modele:           v.Modele,
			AnneeFabrication: v.AnneeFabrication,
			Immatriculation:  v.Immatriculation,
			Statut:           v.Statut,
			BranchID:         v.BranchID,
		}
	}
	return rows
}

// BuildDimBranch copies each branch with branch_key = branch_id, renaming
// nom to nom_branch.
func BuildDimBranch(branches []rental.Branch) []DimBranch {
	rows := make([]DimBranch, len(branches))
	for i, b := range branches {
		rows[i] = DimBranch{
			BranchKey:    b.BranchID,
			BranchID:     b.BranchID,
			NomBranch:    b.Nom,
			Localisation: b.Localisation,
		}
	}
	return rows
}

// BuildDimPaiement deduplicates the (method, status) pairs of the invoices
// and numbers them 1..n ordered by status, then method with null first.
func BuildDimPaiement(factures []rental.Facture) []DimPaiement {
	type pair struct {
		method string
		null   bool
		status string
	}

	seen := make(map[pair]struct{})
	var pairs []pair
	for _, f := range factures {
		p := pair{status: f.StatutPaiement, null: f.ModePaiement == nil}
		if !p.null {
			p.method = *f.ModePaiement
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}

	slices.SortFunc(pairs, func(a, b pair) int {
		if c := cmp.Compare(a.status, b.status); c != 0 {
			return c
		}
		if a.null != b.null {
			if a.null {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.method, b.method)
	})

	rows := make([]DimPaiement, len(pairs))
	for i, p := range pairs {
		rows[i] = DimPaiement{PaiementKey: int64(i + 1), StatutPaiement: p.status}
		if !p.null {
			method := p.method
			rows[i].ModePaiement = &method
		}
	}
	return rows
}

// paiementIndex maps a (method, status) pair to its dimension key.
func paiementIndex(dim []DimPaiement) func(method *string, status string) *int64 {
	keys := make(map[string]int64, len(dim))
	id := func(method *string, status string) string {
		if method == nil {
			return "\x00|" + status
		}
		return *method + "|" + status
	}
	for _, d := range dim {
		keys[id(d.ModePaiement, d.StatutPaiement)] = d.PaiementKey
	}
	return func(method *string, status string) *int64 {
		if k, ok := keys[id(method, status)]; ok {
			return &k
		}
		return nil
	}
}

// vehicleBranchKeys maps each vehicle key to the key of its branch, for
// vehicles whose branch exists in the branch dimension.
func vehicleBranchKeys(vehicles []DimVehicule, branches []DimBranch) map[int64]int64 {
	known := make(map[int64]int64, len(branches))
	for _, b := range branches {
		known[b.BranchID] = b.BranchKey
	}
	keys := make(map[int64]int64, len(vehicles))
	for _, v := range vehicles {
		if bk, ok := known[v.BranchID]; ok {
			keys[v.VehiculeKey] = bk
		}
	}
	return keys
}

func lookup(m map[int64]int64, k int64) *int64 {
	if v, ok := m[k]; ok {
		return &v
	}
	return nil
}

// BuildFactLocation builds one fact per rental. The branch key comes from
// the rented vehicle and is null when the vehicle or its branch is unknown.
func BuildFactLocation(locations []rental.Location, vehicles []DimVehicule, branches []DimBranch) ([]FactLocation, error) {
	check := &shapeCheck{table: "locations"}
	for _, l := range locations {
		check.require("date_debut", !l.DateDebut.IsZero())
		check.require("date_fin", !l.DateFin.IsZero())
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	branchOf := vehicleBranchKeys(vehicles, branches)
	rows := make([]FactLocation, len(locations))
	for i, l := range locations {
		rows[i] = FactLocation{
			RentalID:       l.LocationID,
			DateKeyDebut:   DateKey(l.DateDebut),
			DateKeyFin:     DateKey(l.DateFin),
			ClientKey:      l.ClientID,
			VehiculeKey:    l.VehiculeID,
			BranchKey:      lookup(branchOf, l.VehiculeID),
			DureeLocation:  l.DateFin.Sub(l.DateDebut).Hours(),
			PrixTotal:      l.PrixTotal,
			StatutLocation: l.Statut,
		}
	}
	return rows, nil
}

// BuildFactFacture builds one fact per invoice. Client and vehicle keys are
// recovered through the invoiced rental and stay null when either the rental
// or the dimension row is missing.
func BuildFactFacture(factures []rental.Facture, locations []rental.Location,
	clients []DimClient, vehicles []DimVehicule, paiements []DimPaiement) ([]FactFacture, error) {
	check := &shapeCheck{table: "factures"}
	for _, f := range factures {
		check.require("date_facture", !f.DateFacture.IsZero())
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	byLocation := make(map[int64]rental.Location, len(locations))
	for _, l := range locations {
		byLocation[l.LocationID] = l
	}
	clientKeys := make(map[int64]int64, len(clients))
	for _, c := range clients {
		clientKeys[c.ClientID] = c.ClientKey
	}
	vehicleKeys := make(map[int64]int64, len(vehicles))
	for _, v := range vehicles {
		vehicleKeys[v.VehiculeID] = v.VehiculeKey
	}
	paiementKey := paiementIndex(paiements)

	rows := make([]FactFacture, len(factures))
	for i, f := range factures {
		row := FactFacture{
			FactureID:      f.FactureID,
			LocationID:     f.LocationID,
			PaiementKey:    paiementKey(f.ModePaiement, f.StatutPaiement),
			DateKeyFacture: DateKey(f.DateFacture),
			Montant:        f.Montant,
			ModePaiement:   f.ModePaiement,
			StatutPaiement: f.StatutPaiement,
		}
		if l, ok := byLocation[f.LocationID]; ok {
			row.ClientKey = lookup(clientKeys, l.ClientID)
			row.VehiculeKey = lookup(vehicleKeys, l.VehiculeID)
		}
		rows[i] = row
	}
	return rows, nil
}

// BuildFactMaintenance builds one fact per maintenance event with the
// vehicle's branch key, null when unknown.
func BuildFactMaintenance(entretiens []rental.Entretien, vehicles []DimVehicule, branches []DimBranch) ([]FactMaintenance, error) {
	check := &shapeCheck{table: "entretiens"}
	for _, e := range entretiens {
		check.require("date_entretien", !e.DateEntretien.IsZero())
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	branchOf := vehicleBranchKeys(vehicles, branches)
	rows := make([]FactMaintenance, len(entretiens))
	for i, e := range entretiens {
		rows[i] = FactMaintenance{
			EntretienID:      e.EntretienID,
			VehiculeKey:      e.VehiculeID,
			DateKeyEntretien: DateKey(e.DateEntretien),
			BranchKey:        lookup(branchOf, e.VehiculeID),
			Cout:             e.Cout,
			TypeEntretien:    e.TypeEntretien,
		}
	}
	return rows, nil
}

// Transform reshapes a row store snapshot into the star schema.
func Transform(raw *Snapshot) (*StarSchema, error) {
	log := logging.Stage("transform")

	star := &StarSchema{
		DimClient:   BuildDimClient(raw.Clients),
		DimVehicule: BuildDimVehicule(raw.Vehicles),
		DimBranch:   BuildDimBranch(raw.Branches),
		DimPaiement: BuildDimPaiement(raw.Factures),
	}

	var err error
	star.FactLocation, err = BuildFactLocation(raw.Locations, star.DimVehicule, star.DimBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", TableFactLocation, err)
	}
	star.FactFacture, err = BuildFactFacture(raw.Factures, raw.Locations,
		star.DimClient, star.DimVehicule, star.DimPaiement)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", TableFactFacture, err)
	}
	star.FactMaintenance, err = BuildFactMaintenance(raw.Entretiens, star.DimVehicule, star.DimBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", TableFactMaintenance, err)
	}
	star.DimDate, err = BuildDimDate(star.FactLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", TableDimDate, err)
	}

	for _, ds := range star.Datasets() {
		log.Debug().Str("table", ds.Name()).Int("rows", ds.Len()).Msg("Built table")
	}
	log.Info().
		Int("fact_location", len(star.FactLocation)).
		Int("fact_facture", len(star.FactFacture)).
		Int("fact_maintenance", len(star.FactMaintenance)).
		Int("dim_date", len(star.DimDate)).
		Msg("Transform complete")
	return star, nil
}
