package entity

import (
	"context"

	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Project{},
		&Collection{},
		&Staker{},
		&AttributeRate{},
		&PointLedger{},
		&Raffle{},
		&RaffleParticipant{},
		&RaffleReward{},
	)
}
