package entity

import (
	"database/sql"
	"time"
)

type Raffle struct {
	Base

	ProjectID string  `gorm:"index"`
	Project   Project `gorm:"foreignKey:ProjectID"`

	Title     string
	StartTime time.Time
	EndTime   time.Time

	PointPerTicket uint64

	// MaxTickets of zero means the raffle has no ticket cap.
	MaxTickets  int
	UsedTickets int

	CreatedBy string
}

// RaffleParticipant is one ticket purchase. A wallet can buy several times
// for the same raffle; amounts are cumulative for the draw weighting.
type RaffleParticipant struct {
	Base

	RaffleID string `gorm:"index"`
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	WalletAddress string `gorm:"index"`
	Amount        int
}

// RaffleReward is one prize slot. WinAddress is assigned exactly once by the
// draw; InjectedWinner pre-determines the outcome of this slot, bypassing
// randomness.
type RaffleReward struct {
	Base

	RaffleID string `gorm:"index"`
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	RewardIndex int
	Prize       Map

	InjectedWinner sql.NullString
	WinAddress     sql.NullString
}
