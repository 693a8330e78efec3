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
	"time"

	"github.com/shopspring/decimal"
)

// BasePrices are the daily rates per vehicle type, in XOF.
var BasePrices = map[string]float64{
	TypeCar:  10000,
	TypeMoto: 2500,
	TypeBike: 1500,
}

// AnnualInflation is the yearly price growth applied from the start of the
// simulation window.
const AnnualInflation = 1.05

// durationBuckets are the rental lengths offered per vehicle type, in hours.
var durationBuckets = map[string][]int{
	TypeCar:  {24, 48, 72, 168, 240},
	TypeMoto: {2, 4, 6, 8, 24, 48, 72},
	TypeBike: {1, 2, 4, 8, 24, 48, 72},
}

// DurationBuckets returns the allowed rental lengths in hours for a type.
func DurationBuckets(vehicleType string) []int {
	return durationBuckets[vehicleType]
}

// YearsElapsed approximates the years between start and date as
// (date.year - start.year) + date.month/12.
func YearsElapsed(date, start time.Time) float64 {
	return float64(date.Year()-start.Year()) + float64(date.Month())/12
}

// Price returns the inflation-adjusted price of a rental, rounded to cents:
// base[type] * 1.05^years * days.
func Price(vehicleType string, duration time.Duration, date, start time.Time) (float64, error) {
	base, ok := BasePrices[vehicleType]
	if !ok {
		return 0, fmt.Errorf("unknown vehicle type: %q", vehicleType)
	}

	inflated := base * math.Pow(AnnualInflation, YearsElapsed(date, start))
	return RoundCents(inflated * duration.Seconds() / 86400), nil
}

// RoundCents rounds an amount to two decimals.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
