package entity

import (
	"database/sql"

	"github.com/stakepoint-labs/backend/pkg/enum"
)

type RateUnit string

var (
	RateUnitMinute = enum.New(RateUnit("minute"))
	RateUnitHour   = enum.New(RateUnit("hour"))
	RateUnitDay    = enum.New(RateUnit("day"))
)

// AttributeRate configures how many points one held token earns per time
// unit for a trait of the collection. A NULL trait value is the wildcard for
// its trait type; a NULL trait type is the collection-wide default applied
// to tokens matching no other row.
type AttributeRate struct {
	Base

	CollectionID string     `gorm:"index"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	TraitType  sql.NullString
	TraitValue sql.NullString

	Unit RateUnit
	Rate float64
}
