package entity

// PointLedger is the append-only record of committed claims. One row per
// staker per claim, with a snapshot of how many tokens backed the accrual.
type PointLedger struct {
	SnowFlakeBase

	WalletAddress string `gorm:"index:idx_point_ledgers_staker"`

	CollectionID string     `gorm:"index:idx_point_ledgers_staker"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	Amount   uint64
	HeldNfts int

	// Metadata snapshots the accrual window the row settled.
	Metadata Map
}
