//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package rental models a vehicle-rental business and simulates its
// history: branches, clients, vehicles, rentals (locations), maintenance
// (entretiens) and invoices (factures).
package rental

import "time"

// Vehicle types.
const (
	TypeCar  = "voiture"
	TypeMoto = "moto"
	TypeBike = "vélo"
)

// VehicleTypes lists the vehicle types in catalog order.
var VehicleTypes = []string{TypeCar, TypeMoto, TypeBike}

// Vehicle status values. Transitions:
// available -> rented -> available | maintenance,
// maintenance -> available | out_of_service.
const (
	StatusAvailable    = "disponible"
	StatusRented       = "en location"
	StatusMaintenance  = "maintenance"
	StatusOutOfService = "hors_service"
)

// Statuses lists every valid vehicle status.
var Statuses = []string{StatusAvailable, StatusRented, StatusMaintenance, StatusOutOfService}

// Rental and payment states.
const (
	RentalCompleted = "terminée"
	PaymentPaid     = "payée"
	PaymentUnpaid   = "impayée"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{"carte", "espèces", "mobile_money", "wave"}

// MaintenanceTypes lists the maintenance operation kinds.
var MaintenanceTypes = []string{"réparation", "préventif", "nettoyage", "vidange"}

// Branch is an agency of the business.
type Branch struct {
	BranchID     int64   `db:"branch_id"`
	Nom          string  `db:"nom"`
	Localisation string  `db:"localisation"`
	Latitude     float64 `db:"latitude"`
	Longitude    float64 `db:"longitude"`
}

// Client is a customer attached to one branch.
type Client struct {
	ClientID     int64     `db:"client_id"`
	Nom          string    `db:"nom"`
	Prenom       string    `db:"prenom"`
	Email        string    `db:"email"`
	Telephone    string    `db:"telephone"`
	Adresse      string    `db:"adresse"`
	DateCreation time.Time `db:"date_creation"`
	BranchID     int64     `db:"branch_id"`
}

// Vehicle is a rentable vehicle. Kilometrage only ever grows.
type Vehicle struct {
	VehiculeID        int64     `db:"vehicule_id"`
	Type              string    `db:"type"`
	Marque            string    `db:"marque"`
	Modele            string    `db:"modele"`
	AnneeFabrication  int32     `db:"annee_fabrication"`
	Immatriculation   string    `db:"immatriculation"`
	Statut            string    `db:"statut"`
	BranchID          int64     `db:"branch_id"`
	DateMiseEnService time.Time `db:"date_mise_en_service"`
	Kilometrage       int64     `db:"kilometrage"`
}

// Location is a rental transaction.
type Location struct {
	LocationID   int64     `db:"location_id"`
	ClientID     int64     `db:"client_id"`
	VehiculeID   int64     `db:"vehicule_id"`
	DateDebut    time.Time `db:"date_debut"`
	DateFin      time.Time `db:"date_fin"`
	PrixTotal    float64   `db:"prix_total"`
	Statut       string    `db:"statut"`
	ModePaiement string    `db:"mode_paiement"`
}

// Duration returns the rental length.
func (l Location) Duration() time.Duration {
	return l.DateFin.Sub(l.DateDebut)
}

// Entretien is a maintenance operation on a vehicle.
type Entretien struct {
	EntretienID   int64     `db:"entretien_id"`
	VehiculeID    int64     `db:"vehicule_id"`
	DateEntretien time.Time `db:"date_entretien"`
	TypeEntretien string    `db:"type_entretien"`
	Description   string    `db:"description"`
	Cout          float64   `db:"cout"`
}

// Facture is the invoice of a single rental. ModePaiement is nil when the
// invoice is unpaid.
type Facture struct {
	FactureID      int64     `db:"facture_id"`
	LocationID     int64     `db:"location_id"`
	DateFacture    time.Time `db:"date_facture"`
	Montant        float64   `db:"montant"`
	ModePaiement   *string   `db:"mode_paiement"`
	StatutPaiement string    `db:"statut_paiement"`
}

// Paid reports whether the invoice has been settled.
func (f Facture) Paid() bool {
	return f.StatutPaiement == PaymentPaid
}

// Dataset holds every entity produced by one generation run.
type Dataset struct {
	Branches   []Branch
	Clients    []Client
	Vehicles   []Vehicle
	Locations  []Location
	Entretiens []Entretien
	Factures   []Facture
}

// Counts returns the row count of each collection keyed by table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"branches":   len(d.Branches),
		"clients":    len(d.Clients),
		"vehicles":   len(d.Vehicles),
		"locations":  len(d.Locations),
		"entretiens": len(d.Entretiens),
		"factures":   len(d.Factures),
	}
}
