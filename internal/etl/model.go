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
	"time"

	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// Star schema table names, in load order.
const (
	TableDimClient       = "dim_client"
	TableDimVehicule     = "dim_vehicule"
	TableDimBranch       = "dim_branch"
	TableDimDate         = "dim_date"
	TableDimPaiement     = "dim_paiement"
	TableFactLocation    = "fact_location"
	TableFactFacture     = "fact_facture"
	TableFactMaintenance = "fact_maintenance"
)

type DimClient struct {
	ClientKey    int64     `gorm:"column:client_key;primaryKey;autoIncrement:false"`
	ClientID     int64     `gorm:"column:client_id;not null"`
	Nom          string    `gorm:"column:nom"`
	Prenom       string    `gorm:"column:prenom"`
	Email        string    `gorm:"column:email"`
	Telephone    string    `gorm:"column:telephone"`
	Adresse      string    `gorm:"column:adresse"`
	DateCreation time.Time `gorm:"column:date_creation"`
	BranchID     int64     `gorm:"column:branch_id"`
}

type DimVehicule struct {
	VehiculeKey      int64  `gorm:"column:vehicule_key;primaryKey;autoIncrement:false"`
	VehiculeID       int64  `gorm:"column:vehicule_id;not null"`
	Type             string `gorm:"column:type"`
	Marque           string `gorm:"column:marque"`
	Modele           string `gorm:"column:modele"`
	AnneeFabrication int32  `gorm:"column:annee_fabrication"`
	Immatriculation  string `gorm:"column:immatriculation"`
	Statut           string `gorm:"column:statut"`
	BranchID         int64  `gorm:"column:branch_id"`
}

type DimBranch struct {
	BranchKey    int64  `gorm:"column:branch_key;primaryKey;autoIncrement:false"`
	BranchID     int64  `gorm:"column:branch_id;not null"`
	NomBranch    string `gorm:"column:nom_branch"`
	Localisation string `gorm:"column:localisation"`
}

type DimDate struct {
	DateKey      int32     `gorm:"column:date_key;primaryKey;autoIncrement:false"`
	DateComplete time.Time `gorm:"column:date_complete;type:date"`
	Day          int32     `gorm:"column:day"`
	Month        int32     `gorm:"column:month"`
	Year         int32     `gorm:"column:year"`
	Quarter      int32     `gorm:"column:quarter"`
	DayOfWeek    string    `gorm:"column:day_of_week"`
	LabelDate    string    `gorm:"column:label_date"`
}

// DimPaiement is one observed (method, status) pair. ModePaiement is nil
// for unpaid invoices.
type DimPaiement struct {
	PaiementKey    int64   `gorm:"column:paiement_key;primaryKey;autoIncrement:false"`
	ModePaiement   *string `gorm:"column:mode_paiement"`
	StatutPaiement string  `gorm:"column:statut_paiement"`
}

type FactLocation struct {
	RentalID       int64   `gorm:"column:rental_id;primaryKey;autoIncrement:false"`
	DateKeyDebut   int32   `gorm:"column:date_key_debut;index"`
	DateKeyFin     int32   `gorm:"column:date_key_fin"`
	ClientKey      int64   `gorm:"column:client_key"`
	VehiculeKey    int64   `gorm:"column:vehicule_key"`
	BranchKey      *int64  `gorm:"column:branch_key"`
	DureeLocation  float64 `gorm:"column:duree_location"`
	PrixTotal      float64 `gorm:"column:prix_total"`
	StatutLocation string  `gorm:"column:statut_location"`
}

type FactFacture struct {
	FactureID      int64   `gorm:"column:facture_id;primaryKey;autoIncrement:false"`
	LocationID     int64   `gorm:"column:location_id"`
	ClientKey      *int64  `gorm:"column:client_key"`
	VehiculeKey    *int64  `gorm:"column:vehicule_key"`
	PaiementKey    *int64  `gorm:"column:paiement_key"`
	DateKeyFacture int32   `gorm:"column:date_key_facture;index"`
	Montant        float64 `gorm:"column:montant"`
	ModePaiement   *string `gorm:"column:mode_paiement"`
	StatutPaiement string  `gorm:"column:statut_paiement"`
}

type FactMaintenance struct {
	EntretienID      int64   `gorm:"column:entretien_id;primaryKey;autoIncrement:false"`
	VehiculeKey      int64   `gorm:"column:vehicule_key"`
	DateKeyEntretien int32   `gorm:"column:date_key_entretien;index"`
	BranchKey        *int64  `gorm:"column:branch_key"`
	Cout             float64 `gorm:"column:cout"`
	TypeEntretien    string  `gorm:"column:type_entretien"`
}

// StarSchema is the transformed warehouse model.
type StarSchema struct {
	DimClient       []DimClient
	DimVehicule     []DimVehicule
	DimBranch       []DimBranch
	DimDate         []DimDate
	DimPaiement     []DimPaiement
	FactLocation    []FactLocation
	FactFacture     []FactFacture
	FactMaintenance []FactMaintenance
}

// Datasets returns the star tables in load order.
func (s *StarSchema) Datasets() []table.Dataset {
	return []table.Dataset{
		table.NewSet(DimClientSchema, s.DimClient),
		table.NewSet(DimVehiculeSchema, s.DimVehicule),
		table.NewSet(DimBranchSchema, s.DimBranch),
		table.NewSet(DimDateSchema, s.DimDate),
		table.NewSet(DimPaiementSchema, s.DimPaiement),
		table.NewSet(FactLocationSchema, s.FactLocation),
		table.NewSet(FactFactureSchema, s.FactFacture),
		table.NewSet(FactMaintenanceSchema, s.FactMaintenance),
	}
}

var DimClientSchema = &table.Schema[DimClient]{
	Name: TableDimClient,
	Key:  "client_key",
	Columns: []table.Column{
		{Name: "client_key", Kind: table.Int64},
		{Name: "client_id", Kind: table.Int64},
		{Name: "nom", Kind: table.String},
		{Name: "prenom", Kind: table.String},
		{Name: "email", Kind: table.String},
		{Name: "telephone", Kind: table.String},
		{Name: "adresse", Kind: table.String},
		{Name: "date_creation", Kind: table.Timestamp},
		{Name: "branch_id", Kind: table.Int64},
	},
	Values: func(d DimClient) []any {
		return []any{d.ClientKey, d.ClientID, d.Nom, d.Prenom, d.Email, d.Telephone, d.Adresse, d.DateCreation, d.BranchID}
	},
}

var DimVehiculeSchema = &table.Schema[DimVehicule]{
	Name: TableDimVehicule,
	Key:  "vehicule_key",
	Columns: []table.Column{
		{Name: "vehicule_key", Kind: table.Int64},
		{Name: "vehicule_id", Kind: table.Int64},
		{Name: "type", Kind: table.String},
		{Name: "marque", Kind: table.String},
		{Name: "modele", Kind: table.String},
		{Name: "annee_fabrication", Kind: table.Int32},
		{Name: "immatriculation", Kind: table.String},
		{Name: "statut", Kind: table.String},
		{Name: "branch_id", Kind: table.Int64},
	},
	Values: func(d DimVehicule) []any {
		return []any{d.VehiculeKey, d.VehiculeID, d.Type, d.Marque, d.Modele, d.AnneeFabrication,
			d.Immatriculation, d.Statut, d.BranchID}
	},
}

var DimBranchSchema = &table.Schema[DimBranch]{
	Name: TableDimBranch,
	Key:  "branch_key",
	Columns: []table.Column{
		{Name: "branch_key", Kind: table.Int64},
		{Name: "branch_id", Kind: table.Int64},
		{Name: "nom_branch", Kind: table.String},
		{Name: "localisation", Kind: table.String},
	},
	Values: func(d DimBranch) []any {
		return []any{d.BranchKey, d.BranchID, d.NomBranch, d.Localisation}
	},
}

var DimDateSchema = &table.Schema[DimDate]{
	Name: TableDimDate,
	Key:  "date_key",
	Columns: []table.Column{
		{Name: "date_key", Kind: table.Int32},
		{Name: "date_complete", Kind: table.Date},
		{Name: "day", Kind: table.Int32},
		{Name: "month", Kind: table.Int32},
		{Name: "year", Kind: table.Int32},
		{Name: "quarter", Kind: table.Int32},
		{Name: "day_of_week", Kind: table.String},
		{Name: "label_date", Kind: table.String},
	},
	Values: func(d DimDate) []any {
		return []any{d.DateKey, d.DateComplete, d.Day, d.Month, d.Year, d.Quarter, d.DayOfWeek, d.LabelDate}
	},
}

var DimPaiementSchema = &table.Schema[DimPaiement]{
	Name: TableDimPaiement,
	Key:  "paiement_key",
	Columns: []table.Column{
		{Name: "paiement_key", Kind: table.Int64},
		{Name: "mode_paiement", Kind: table.String, Nullable: true},
		{Name: "statut_paiement", Kind: table.String},
	},
	Values: func(d DimPaiement) []any {
		return []any{d.PaiementKey, d.ModePaiement, d.StatutPaiement}
	},
}

var FactLocationSchema = &table.Schema[FactLocation]{
	Name: TableFactLocation,
	Key:  "rental_id",
	Columns: []table.Column{
		{Name: "rental_id", Kind: table.Int64},
		{Name: "date_key_debut", Kind: table.Int32},
		{Name: "date_key_fin", Kind: table.Int32},
		{Name: "client_key", Kind: table.Int64},
		{Name: "vehicule_key", Kind: table.Int64},
		{Name: "branch_key", Kind: table.Int64, Nullable: true},
		{Name: "duree_location", Kind: table.Float64},
		{Name: "prix_total", Kind: table.Float64},
		{Name: "statut_location", Kind: table.String},
	},
	Values: func(f FactLocation) []any {
		return []any{f.RentalID, f.DateKeyDebut, f.DateKeyFin, f.ClientKey, f.VehiculeKey, f.BranchKey,
			f.DureeLocation, f.PrixTotal, f.StatutLocation}
	},
}

var FactFactureSchema = &table.Schema[FactFacture]{
	Name: TableFactFacture,
	Key:  "facture_id",
	Columns: []table.Column{
		{Name: "facture_id", Kind: table.Int64},
		{Name: "location_id", Kind: table.Int64},
		{Name: "client_key", Kind: table.Int64, Nullable: true},
		{Name: "vehicule_key", Kind: table.Int64, Nullable: true},
		{Name: "paiement_key", Kind: table.Int64, Nullable: true},
		{Name: "date_key_facture", Kind: table.Int32},
		{Name: "montant", Kind: table.Float64},
		{Name: "mode_paiement", Kind: table.String, Nullable: true},
		{Name: "statut_paiement", Kind: table.String},
	},
	Values: func(f FactFacture) []any {
		return []any{f.FactureID, f.LocationID, f.ClientKey, f.VehiculeKey, f.PaiementKey, f.DateKeyFacture,
			f.Montant, f.ModePaiement, f.StatutPaiement}
	},
}

var FactMaintenanceSchema = &table.Schema[FactMaintenance]{
	Name: TableFactMaintenance,
	Key:  "entretien_id",
	Columns: []table.Column{
		{Name: "entretien_id", Kind: table.Int64},
		{Name: "vehicule_key", Kind: table.Int64},
		{Name: "date_key_entretien", Kind: table.Int32},
		{Name: "branch_key", Kind: table.Int64, Nullable: true},
		{Name: "cout", Kind: table.Float64},
		{Name: "type_entretien", Kind: table.String},
	},
	Values: func(f FactMaintenance) []any {
		return []any{f.EntretienID, f.VehiculeKey, f.DateKeyEntretien, f.BranchKey, f.Cout, f.TypeEntretien}
	},
}
