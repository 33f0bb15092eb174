package accrual

import (
	"time"

	"github.com/stakepoint-labs/backend/internal/entity"
)

type rateKey struct {
	traitType  string
	traitValue string
}

type resolvedRate struct {
	rate float64
	unit time.Duration
}

// RateTable resolves a token trait to its points-per-time-unit rate. Rows
// are matched from most to least specific: exact (type, value) pair, then
// the wildcard row of the trait type, then the collection default.
type RateTable struct {
	exact     map[rateKey]resolvedRate
	wildcards map[string]resolvedRate
	fallback  *resolvedRate
}

func NewRateTable(rates []entity.AttributeRate) *RateTable {
	table := &RateTable{
		exact:     map[rateKey]resolvedRate{},
		wildcards: map[string]resolvedRate{},
	}

	for _, r := range rates {
		resolved := resolvedRate{rate: r.Rate, unit: unitDuration(r.Unit)}

		switch {
		case !r.TraitType.Valid:
			fallback := resolved
			table.fallback = &fallback

		case !r.TraitValue.Valid:
			table.wildcards[r.TraitType.String] = resolved

		default:
			key := rateKey{traitType: r.TraitType.String, traitValue: r.TraitValue.String}
			table.exact[key] = resolved
		}
	}

	return table
}

// Resolve returns the rate applied to one trait dimension, or false if no
// configured row covers it.
func (t *RateTable) Resolve(traitType, traitValue string) (float64, time.Duration, bool) {
	if r, ok := t.exact[rateKey{traitType: traitType, traitValue: traitValue}]; ok {
		return r.rate, r.unit, true
	}

	if r, ok := t.wildcards[traitType]; ok {
		return r.rate, r.unit, true
	}

	if t.fallback != nil {
		return t.fallback.rate, t.fallback.unit, true
	}

	return 0, 0, false
}

func unitDuration(unit entity.RateUnit) time.Duration {
	switch unit {
	case entity.RateUnitMinute:
		return time.Minute
	case entity.RateUnitHour:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}
