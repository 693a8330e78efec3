//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// Row store table names, in write order.
const (
	TableBranches   = "branches"
	TableClients    = "clients"
	TableVehicles   = "vehicles"
	TableLocations  = "locations"
	TableEntretiens = "entretiens"
	TableFactures   = "factures"
)

// Tables lists the row store tables in dependency order.
var Tables = []string{
	TableBranches, TableClients, TableVehicles,
	TableLocations, TableEntretiens, TableFactures,
}

var Branches = &table.Schema[rental.Branch]{
	Name: TableBranches,
	Key:  "branch_id",
	Columns: []table.Column{
		{Name: "branch_id", Kind: table.Int64},
		{Name: "nom", Kind: table.String},
		{Name: "localisation", Kind: table.String},
		{Name: "latitude", Kind: table.Float64},
		{Name: "longitude", Kind: table.Float64},
	},
	Values: func(b rental.Branch) []any {
		return []any{b.BranchID, b.Nom, b.Localisation, b.Latitude, b.Longitude}
	},
}

var Clients = &table.Schema[rental.Client]{
	Name: TableClients,
	Key:  "client_id",
	Columns: []table.Column{
		{Name: "client_id", Kind: table.Int64},
		{Name: "nom", Kind: table.String},
		{Name: "prenom", Kind: table.String},
		{Name: "email", Kind: table.String},
		{Name: "telephone", Kind: table.String},
		{Name: "adresse", Kind: table.String},
		{Name: "date_creation", Kind: table.Timestamp},
		{Name: "branch_id", Kind: table.Int64},
	},
	Values: func(c rental.Client) []any {
		return []any{c.ClientID, c.Nom, c.Prenom, c.Email, c.Telephone, c.Adresse, c.DateCreation, c.BranchID}
	},
}

var Vehicles = &table.Schema[rental.Vehicle]{
	Name: TableVehicles,
	Key:  "vehicule_id",
	Columns: []table.Column{
		{Name: "vehicule_id", Kind: table.Int64},
		{Name: "type", Kind: table.String},
		{Name: "marque", Kind: table.String},
		{Name: "modele", Kind: table.String},
		{Name: "annee_fabrication", Kind: table.Int32},
		{Name: "immatriculation", Kind: table.String},
		{Name: "statut", Kind: table.String},
		{Name: "branch_id", Kind: table.Int64},
		{Name: "date_mise_en_service", Kind: table.Timestamp},
		{Name: "kilometrage", Kind: table.Int64},
	},
	Values: func(v rental.Vehicle) []any {
		return []any{v.VehiculeID, v.Type, v.Marque, v.Modele, v.AnneeFabrication, v.Immatriculation,
			v.Statut, v.BranchID, v.DateMiseEnService, v.Kilometrage}
	},
}

var Locations = &table.Schema[rental.Location]{
	Name: TableLocations,
	Key:  "location_id",
	Columns: []table.Column{
		{Name: "location_id", Kind: table.Int64},
		{Name: "client_id", Kind: table.Int64},
		{Name: "vehicule_id", Kind: table.Int64},
		{Name: "date_debut", Kind: table.Timestamp},
		{Name: "date_fin", Kind: table.Timestamp},
		{Name: "prix_total", Kind: table.Float64},
		{Name: "statut", Kind: table.String},
		{Name: "mode_paiement", Kind: table.String},
	},
	Values: func(l rental.Location) []any {
		return []any{l.LocationID, l.ClientID, l.VehiculeID, l.DateDebut, l.DateFin, l.PrixTotal, l.Statut, l.ModePaiement}
	},
}

var Entretiens = &table.Schema[rental.Entretien]{
	Name: TableEntretiens,
	Key:  "entretien_id",
	Columns: []table.Column{
		{Name: "entretien_id", Kind: table.Int64},
		{Name: "vehicule_id", Kind: table.Int64},
		{Name: "date_entretien", Kind: table.Timestamp},
		{Name: "type_entretien", Kind: table.String},
		{Name: "description", Kind: table.String},
		{Name: "cout", Kind: table.Float64},
	},
	Values: func(e rental.Entretien) []any {
		return []any{e.EntretienID, e.VehiculeID, e.DateEntretien, e.TypeEntretien, e.Description, e.Cout}
	},
}

var Factures = &table.Schema[rental.Facture]{
	Name: TableFactures,
	Key:  "facture_id",
	Columns: []table.Column{
		{Name: "facture_id", Kind: table.Int64},
		{Name: "location_id", Kind: table.Int64},
		{Name: "date_facture", Kind: table.Timestamp},
		{Name: "montant", Kind: table.Float64},
		{Name: "mode_paiement", Kind: table.String, Nullable: true},
		{Name: "statut_paiement", Kind: table.String},
	},
	Values: func(f rental.Facture) []any {
		return []any{f.FactureID, f.LocationID, f.DateFacture, f.Montant, f.ModePaiement, f.StatutPaiement}
	},
}
