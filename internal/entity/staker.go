package entity

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Staker is one wallet's participation in one collection. The row is created
// on registration and never deleted. Points only decrease through raffle
// ticket purchases.
type Staker struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	WalletAddress string `gorm:"primaryKey"`

	CollectionID string     `gorm:"primaryKey"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	Points uint64

	// LastClaimedAt is the claim checkpoint. NULL means the staker has never
	// claimed; elapsed time is then measured from CreatedAt.
	LastClaimedAt sql.NullTime

	HeldNfts int
}

// Checkpoint returns the instant the next accrual interval starts from.
func (s *Staker) Checkpoint() time.Time {
	if s.LastClaimedAt.Valid {
		return s.LastClaimedAt.Time
	}

	return s.CreatedAt
}
