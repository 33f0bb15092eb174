package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stakepoint-labs/backend/config"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/authenticator"
	"github.com/stakepoint-labs/backend/pkg/logger"
	"github.com/stakepoint-labs/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 1,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Oracle: config.OracleConfigs{
			RequestTimeout: time.Second,
			CacheTTL:       time.Minute,
			Chains: map[string]config.ChainOracleConfigs{
				"eth": {Chain: "eth", URL: "http://localhost:8123", PageLimit: 100},
			},
		},
		Accrual: config.AccrualConfigs{
			MinCommitPoints: 1,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithDB(ctx, db)

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}
	ctx = xcontext.WithSnowFlake(ctx, node)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithWallet(ctx context.Context, walletAddress string) context.Context {
	return xcontext.WithRequestWallet(ctx, walletAddress)
}
