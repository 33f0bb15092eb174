package accrual

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stakepoint-labs/backend/internal/client"
	"github.com/stakepoint-labs/backend/internal/entity"
)

func nullString(s string) sql.NullString {
	return sql.NullString{Valid: true, String: s}
}

func Test_RateTable_Resolve(t *testing.T) {
	table := NewRateTable([]entity.AttributeRate{
		{
			TraitType:  nullString("Background"),
			TraitValue: nullString("Gold"),
			Unit:       entity.RateUnitDay,
			Rate:       5,
		},
		{
			TraitType:  nullString("Background"),
			TraitValue: sql.NullString{},
			Unit:       entity.RateUnitHour,
			Rate:       2,
		},
		{
			TraitType:  sql.NullString{},
			TraitValue: sql.NullString{},
			Unit:       entity.RateUnitDay,
			Rate:       1,
		},
	})

	rate, unit, ok := table.Resolve("Background", "Gold")
	require.True(t, ok)
	require.Equal(t, float64(5), rate)
	require.Equal(t, 24*time.Hour, unit)

	// No exact row for Silver, falls to the trait-type wildcard.
	rate, unit, ok = table.Resolve("Background", "Silver")
	require.True(t, ok)
	require.Equal(t, float64(2), rate)
	require.Equal(t, time.Hour, unit)

	// Unknown trait type falls to the collection default.
	rate, unit, ok = table.Resolve("Eyes", "Laser")
	require.True(t, ok)
	require.Equal(t, float64(1), rate)
	require.Equal(t, 24*time.Hour, unit)
}

func Test_RateTable_Resolve_noDefault(t *testing.T) {
	table := NewRateTable([]entity.AttributeRate{
		{
			TraitType:  nullString("Background"),
			TraitValue: nullString("Gold"),
			Unit:       entity.RateUnitDay,
			Rate:       5,
		},
	})

	_, _, ok := table.Resolve("Eyes", "Laser")
	require.False(t, ok)
}

func Test_Compute(t *testing.T) {
	table := NewRateTable([]entity.AttributeRate{
		{
			TraitType:  sql.NullString{},
			TraitValue: sql.NullString{},
			Unit:       entity.RateUnitDay,
			Rate:       1,
		},
	})

	checkpoint := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := []client.HeldToken{
		{TokenID: "1", Traits: []client.TokenTrait{{Type: "Background", Value: "Gold"}}},
		{TokenID: "2", Traits: []client.TokenTrait{{Type: "Background", Value: "Silver"}}},
	}

	// Two tokens at one point per day over ten days.
	points := Compute(checkpoint, checkpoint.Add(10*24*time.Hour), tokens, table)
	require.Equal(t, float64(20), points)
	require.Equal(t, uint64(20), CommitAmount(points))
}

func Test_Compute_multiTrait(t *testing.T) {
	table := NewRateTable([]entity.AttributeRate{
		{
			TraitType:  nullString("Background"),
			TraitValue: nullString("Gold"),
			Unit:       entity.RateUnitDay,
			Rate:       5,
		},
		{
			TraitType:  nullString("Fur"),
			TraitValue: sql.NullString{},
			Unit:       entity.RateUnitDay,
			Rate:       2,
		},
	})

	checkpoint := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := []client.HeldToken{
		{
			TokenID: "1",
			Traits: []client.TokenTrait{
				{Type: "Background", Value: "Gold"},
				{Type: "Fur", Value: "Brown"},
				{Type: "Eyes", Value: "Laser"}, // no row, no default, earns nothing
			},
		},
	}

	points := Compute(checkpoint, checkpoint.Add(24*time.Hour), tokens, table)
	require.Equal(t, float64(7), points)
}

func Test_Compute_zeroFloor(t *testing.T) {
	table := NewRateTable([]entity.AttributeRate{
		{TraitType: sql.NullString{}, TraitValue: sql.NullString{}, Unit: entity.RateUnitDay, Rate: 1},
	})

	checkpoint := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := []client.HeldToken{
		{TokenID: "1", Traits: []client.TokenTrait{{Type: "Background", Value: "Gold"}}},
	}

	require.Equal(t, float64(0), Compute(checkpoint, checkpoint, tokens, table))
	require.Equal(t, float64(0), Compute(checkpoint, checkpoint.Add(-time.Hour), tokens, table))
}

func Test_CommitAmount_floorsFractions(t *testing.T) {
	require.Equal(t, uint64(0), CommitAmount(0.99))
	require.Equal(t, uint64(1), CommitAmount(1.5))
	require.Equal(t, uint64(0), CommitAmount(-3))
}
