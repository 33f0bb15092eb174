package domain

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/domain/leaderboard"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetRank(context.Context, *model.GetRankRequest) (*model.GetRankResponse, error)
}

type statisticDomain struct {
	leaderboard leaderboard.Leaderboard
}

func NewStatisticDomain(leaderboard leaderboard.Leaderboard) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	standings, err := d.leaderboard.GetLeaderboard(ctx, req.ProjectID, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Standings: standings}, nil
}

func (d *statisticDomain) GetRank(
	ctx context.Context, req *model.GetRankRequest,
) (*model.GetRankResponse, error) {
	walletAddress := req.WalletAddress
	if walletAddress == "" {
		walletAddress = xcontext.RequestWallet(ctx)
	}

	if walletAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty wallet address")
	}

	standing, err := d.leaderboard.GetRank(ctx, req.ProjectID, walletAddress)
	if err != nil {
		return nil, err
	}

	return &model.GetRankResponse{Standing: *standing}, nil
}
