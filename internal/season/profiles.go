package season

import "time"

// YearEnd grows linearly with the month of the year:
// 1 + 0.3 * (month / 12), so January is ~1.025 and December 1.3.
type YearEnd struct {
	tz *time.Location
}

// NewYearEnd creates a new YearEnd profile.
func NewYearEnd(tz *time.Location) Profile {
	return &YearEnd{tz: tz}
}

func (p *YearEnd) Name() string {
	return "year-end"
}

func (p *YearEnd) Description() string {
	return "Volume rises through the year, peaking in December"
}

func (p *YearEnd) Factor(t time.Time) float64 {
	return monthTrend(t.In(p.tz))
}

// Flat keeps the daily volume constant.
type Flat struct{}

// NewFlat creates a new Flat profile.
func NewFlat(_ *time.Location) Profile {
	return &Flat{}
}

func (p *Flat) Name() string {
	return "flat"
}

func (p *Flat) Description() string {
	return "Constant volume all year"
}

func (p *Flat) Factor(time.Time) float64 {
	return 1.0
}

// Weekend applies the year-end trend and boosts Saturdays and Sundays
// to 120% of a weekday.
type Weekend struct {
	tz *time.Location
}

// NewWeekend creates a new Weekend profile.
func NewWeekend(tz *time.Location) Profile {
	return &Weekend{tz: tz}
}

func (p *Weekend) Name() string {
	return "weekend"
}

func (p *Weekend) Description() string {
	return "Year-end trend with a 20% weekend boost"
}

func (p *Weekend) Factor(t time.Time) float64 {
	t = t.In(p.tz)
	base := monthTrend(t)
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		base *= 1.20
	}
	return base
}

func monthTrend(t time.Time) float64 {
	return 1 + 0.3*(float64(t.Month())/12)
}
