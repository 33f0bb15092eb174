package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stakepoint-labs/backend/internal/domain/leaderboard"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/testutil"
	"github.com/stakepoint-labs/backend/pkg/xredis"
)

const testWallet3 = "0x3333333333333333333333333333333333333333"

func newStatisticDomain(redisClient xredis.Client) *statisticDomain {
	return NewStatisticDomain(leaderboard.New(repository.NewStakerRepository(), redisClient))
}

// seedStandings stakes three wallets over two projects:
//
//	projectA: wallet1 holds 50+30 points, wallet2 holds 80 (a tie at 80)
//	projectB: wallet2 holds 100, wallet3 holds 10
//
// Global totals are wallet2=180, wallet1=80, wallet3=10.
func seedStandings(t *testing.T, ctx context.Context) (projectA, projectB string) {
	collection1, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)
	collection2, err := testutil.SampleCollection(ctx, &entity.Collection{
		ProjectID: collection1.ProjectID,
	})
	require.NoError(t, err)
	collection3, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)

	stakes := []entity.Staker{
		{WalletAddress: testWallet1, CollectionID: collection1.ID, Points: 50, HeldNfts: 1},
		{WalletAddress: testWallet1, CollectionID: collection2.ID, Points: 30, HeldNfts: 2},
		{WalletAddress: testWallet2, CollectionID: collection1.ID, Points: 80, HeldNfts: 4},
		{WalletAddress: testWallet2, CollectionID: collection3.ID, Points: 100, HeldNfts: 1},
		{WalletAddress: testWallet3, CollectionID: collection3.ID, Points: 10, HeldNfts: 3},
	}

	for i := range stakes {
		_, err := testutil.SampleStaker(ctx, &stakes[i])
		require.NoError(t, err)
	}

	return collection1.ProjectID, collection3.ProjectID
}

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	projectA, _ := seedStandings(t, ctx)

	d := newStatisticDomain(&testutil.MockRedisClient{})

	resp, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Standings, 3)
	require.Equal(t, model.WalletStanding{
		WalletAddress: testWallet2, TotalPoints: 180, TotalHeldNfts: 5, CurrentRank: 1,
	}, resp.Standings[0])
	require.Equal(t, model.WalletStanding{
		WalletAddress: testWallet1, TotalPoints: 80, TotalHeldNfts: 3, CurrentRank: 2,
	}, resp.Standings[1])
	require.Equal(t, model.WalletStanding{
		WalletAddress: testWallet3, TotalPoints: 10, TotalHeldNfts: 3, CurrentRank: 3,
	}, resp.Standings[2])

	// Within projectA, wallet1 and wallet2 tie at 80 points; the lower wallet
	// address comes first.
	resp, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{ProjectID: projectA, Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Standings, 2)
	require.Equal(t, testWallet1, resp.Standings[0].WalletAddress)
	require.Equal(t, uint64(80), resp.Standings[0].TotalPoints)
	require.Equal(t, testWallet2, resp.Standings[1].WalletAddress)
	require.Equal(t, uint64(80), resp.Standings[1].TotalPoints)

	// Ranks follow the absolute position, not the page.
	resp, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Standings, 1)
	require.Equal(t, testWallet1, resp.Standings[0].WalletAddress)
	require.Equal(t, 2, resp.Standings[0].CurrentRank)
}

func Test_statisticDomain_GetLeaderboard_limit(t *testing.T) {
	ctx := testutil.MockContext()
	seedStandings(t, ctx)

	d := newStatisticDomain(&testutil.MockRedisClient{})

	// A zero limit falls back to the configured default of one row.
	resp, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Standings, 1)

	_, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 51})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: -1})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Offset: -1, Limit: 10})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_statisticDomain_GetRank(t *testing.T) {
	ctx := testutil.MockContext()
	projectA, _ := seedStandings(t, ctx)

	// An erroring cache forces the database counting path.
	d := newStatisticDomain(&testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return false, errors.New("connection refused")
		},
	})

	resp, err := d.GetRank(ctx, &model.GetRankRequest{WalletAddress: testWallet3})
	require.NoError(t, err)
	require.Equal(t, uint64(10), resp.Standing.TotalPoints)
	require.Equal(t, 3, resp.Standing.CurrentRank)

	// Tied wallets share a rank.
	resp, err = d.GetRank(ctx, &model.GetRankRequest{ProjectID: projectA, WalletAddress: testWallet1})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Standing.CurrentRank)

	resp, err = d.GetRank(ctx, &model.GetRankRequest{ProjectID: projectA, WalletAddress: testWallet2})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Standing.CurrentRank)

	_, err = d.GetRank(ctx, &model.GetRankRequest{WalletAddress: "0xdead"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	// Without an authenticated wallet there is nothing to rank.
	_, err = d.GetRank(ctx, &model.GetRankRequest{})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// The authenticated wallet is the default subject.
	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err = d.GetRank(authorizedCtx, &model.GetRankRequest{})
	require.NoError(t, err)
	require.Equal(t, testWallet1, resp.Standing.WalletAddress)
	require.Equal(t, 2, resp.Standing.CurrentRank)
}

func Test_statisticDomain_GetRank_warmCache(t *testing.T) {
	ctx := testutil.MockContext()
	seedStandings(t, ctx)

	var gotKey, gotMin string
	d := newStatisticDomain(&testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return true, nil
		},
		ZCountFunc: func(ctx context.Context, key, min, max string) (int64, error) {
			gotKey, gotMin = key, min
			return 3, nil
		},
	})

	resp, err := d.GetRank(ctx, &model.GetRankRequest{WalletAddress: testWallet2})
	require.NoError(t, err)
	require.Equal(t, 4, resp.Standing.CurrentRank)
	require.Equal(t, "leaderboard:point:global", gotKey)
	require.Equal(t, "(180", gotMin)
}

func Test_statisticDomain_GetRank_rebuildsCache(t *testing.T) {
	ctx := testutil.MockContext()
	seedStandings(t, ctx)

	added := map[string]float64{}
	deleted := false
	d := newStatisticDomain(&testutil.MockRedisClient{
		DelFunc: func(ctx context.Context, keys ...string) error {
			deleted = true
			return nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			added[z.Member.(string)] = z.Score
			return nil
		},
	})

	// A cold key is rebuilt from every standing in scope before counting.
	_, err := d.GetRank(ctx, &model.GetRankRequest{WalletAddress: testWallet1})
	require.NoError(t, err)
	require.True(t, deleted)
	require.Equal(t, map[string]float64{
		testWallet1: 80,
		testWallet2: 180,
		testWallet3: 10,
	}, added)
}
