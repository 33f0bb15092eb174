package domain

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stakepoint-labs/backend/internal/client"
	"github.com/stakepoint-labs/backend/internal/domain/leaderboard"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/testutil"
)

const (
	testWallet1 = "0x1111111111111111111111111111111111111111"
	testWallet2 = "0x2222222222222222222222222222222222222222"
)

func newStakingDomain(holdings client.HoldingsCaller) *stakingDomain {
	stakerRepo := repository.NewStakerRepository()
	return NewStakingDomain(
		stakerRepo,
		repository.NewCollectionRepository(),
		repository.NewProjectRepository(),
		repository.NewAttributeRateRepository(),
		repository.NewPointLedgerRepository(),
		holdings,
		leaderboard.New(stakerRepo, &testutil.MockRedisClient{}),
		&testutil.MockPublisher{},
	)
}

func twoTokenHoldings() *testutil.MockHoldingsCaller {
	return &testutil.MockHoldingsCaller{
		GetHoldingsFunc: func(
			ctx context.Context, chain, walletAddress, contractAddress string,
		) ([]client.HeldToken, error) {
			return []client.HeldToken{
				{TokenID: "1", Traits: []client.TokenTrait{{Type: "Background", Value: "Gold"}}},
				{TokenID: "2", Traits: []client.TokenTrait{{Type: "Background", Value: "Silver"}}},
			}, nil
		},
	}
}

func createDefaultRate(
	t *testing.T, ctx context.Context, collectionID string, rate float64,
) {
	err := repository.NewAttributeRateRepository().Create(ctx, &entity.AttributeRate{
		Base:         entity.Base{ID: collectionID + "-default-rate"},
		CollectionID: collectionID,
		Unit:         entity.RateUnitDay,
		Rate:         rate,
	})
	require.NoError(t, err)
}

func Test_stakingDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)

	d := newStakingDomain(twoTokenHoldings())

	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.Register(authorizedCtx, &model.RegisterStakerRequest{
		CollectionID: collection.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testWallet1, resp.Staker.WalletAddress)
	require.Equal(t, uint64(0), resp.Staker.Points)
	require.Equal(t, 2, resp.Staker.HeldNfts)

	// The same wallet cannot register to the same collection twice.
	_, err = d.Register(authorizedCtx, &model.RegisterStakerRequest{
		CollectionID: collection.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// An unknown collection is rejected.
	_, err = d.Register(authorizedCtx, &model.RegisterStakerRequest{
		CollectionID: "no-collection",
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_stakingDomain_Register_indexerDown(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)

	d := newStakingDomain(&testutil.MockHoldingsCaller{
		GetHoldingsFunc: func(
			ctx context.Context, chain, walletAddress, contractAddress string,
		) ([]client.HeldToken, error) {
			return nil, errors.New("indexer down")
		},
	})

	// Registration still succeeds, only the held-token snapshot is empty.
	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.Register(authorizedCtx, &model.RegisterStakerRequest{
		CollectionID: collection.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Staker.HeldNfts)
}

func Test_stakingDomain_Claim(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)
	createDefaultRate(t, ctx, collection.ID, 1)

	checkpoint := time.Now().Add(-10 * 24 * time.Hour)
	_, err = testutil.SampleStaker(ctx, &entity.Staker{
		WalletAddress: testWallet1,
		CollectionID:  collection.ID,
		LastClaimedAt: sql.NullTime{Valid: true, Time: checkpoint},
	})
	require.NoError(t, err)

	d := newStakingDomain(twoTokenHoldings())

	// Two tokens at one point per day over ten days.
	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.Claim(authorizedCtx, &model.ClaimPointsRequest{
		ProjectID: collection.ProjectID,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(20), resp.TotalPoints)
	require.Len(t, resp.Collections, 1)
	require.Equal(t, uint64(20), resp.Collections[0].Points)
	require.Equal(t, 2, resp.Collections[0].HeldNfts)

	staker, err := repository.NewStakerRepository().Get(ctx, testWallet1, collection.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(20), staker.Points)
	require.True(t, staker.LastClaimedAt.Time.After(checkpoint))

	ledger, err := repository.NewPointLedgerRepository().GetByWallet(ctx, testWallet1, 0, 10)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	require.Equal(t, uint64(20), ledger[0].Amount)

	// An immediate second claim accrues less than one point, so nothing is
	// committed and the balance stays put.
	resp, err = d.Claim(authorizedCtx, &model.ClaimPointsRequest{
		ProjectID: collection.ProjectID,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.TotalPoints)
	require.Empty(t, resp.Collections)

	staker, err = repository.NewStakerRepository().Get(ctx, testWallet1, collection.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(20), staker.Points)

	ledger, err = repository.NewPointLedgerRepository().GetByWallet(ctx, testWallet1, 0, 10)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
}

func Test_stakingDomain_GetPointLedger(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)

	ledgerRepo := repository.NewPointLedgerRepository()
	for i := int64(1); i <= 2; i++ {
		err := ledgerRepo.Create(ctx, &entity.PointLedger{
			SnowFlakeBase: entity.SnowFlakeBase{ID: i},
			WalletAddress: testWallet1,
			CollectionID:  collection.ID,
			Amount:        uint64(i) * 10,
			HeldNfts:      2,
		})
		require.NoError(t, err)
	}

	d := newStakingDomain(twoTokenHoldings())
	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)

	resp, err := d.GetPointLedger(authorizedCtx, &model.GetPointLedgerRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)

	resp, err = d.GetPointLedger(authorizedCtx, &model.GetPointLedgerRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)

	_, err = d.GetPointLedger(authorizedCtx, &model.GetPointLedgerRequest{Limit: 51})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_stakingDomain_Claim_checkpointConflict(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)
	createDefaultRate(t, ctx, collection.ID, 1)

	checkpoint := time.Now().Add(-10 * 24 * time.Hour)
	_, err = testutil.SampleStaker(ctx, &entity.Staker{
		WalletAddress: testWallet1,
		CollectionID:  collection.ID,
		LastClaimedAt: sql.NullTime{Valid: true, Time: checkpoint},
	})
	require.NoError(t, err)

	// A competing claim settles while this one is still fetching holdings,
	// advancing the checkpoint under its feet.
	stakerRepo := repository.NewStakerRepository()
	d := newStakingDomain(&testutil.MockHoldingsCaller{
		GetHoldingsFunc: func(
			c context.Context, chain, walletAddress, contractAddress string,
		) ([]client.HeldToken, error) {
			err := stakerRepo.ApplyClaim(
				ctx, testWallet1, collection.ID, 5, 2,
				sql.NullTime{Valid: true, Time: checkpoint}, time.Now(),
			)
			require.NoError(t, err)

			return []client.HeldToken{
				{TokenID: "1", Traits: []client.TokenTrait{{Type: "Background", Value: "Gold"}}},
				{TokenID: "2", Traits: []client.TokenTrait{{Type: "Background", Value: "Silver"}}},
			}, nil
		},
	})

	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	_, err = d.Claim(authorizedCtx, &model.ClaimPointsRequest{
		ProjectID: collection.ProjectID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.TooManyRequests, err.(errorx.Error).Code)

	// Only the winning claim is applied; the loser rolled back everything.
	staker, err := stakerRepo.Get(ctx, testWallet1, collection.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(5), staker.Points)

	ledger, err := repository.NewPointLedgerRepository().GetByWallet(ctx, testWallet1, 0, 10)
	require.NoError(t, err)
	require.Empty(t, ledger)
}

func Test_stakingDomain_Claim_upstreamUnavailable(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)
	createDefaultRate(t, ctx, collection.ID, 1)

	_, err = testutil.SampleStaker(ctx, &entity.Staker{
		WalletAddress: testWallet1,
		CollectionID:  collection.ID,
		LastClaimedAt: sql.NullTime{Valid: true, Time: time.Now().Add(-24 * time.Hour)},
	})
	require.NoError(t, err)

	d := newStakingDomain(&testutil.MockHoldingsCaller{
		GetHoldingsFunc: func(
			ctx context.Context, chain, walletAddress, contractAddress string,
		) ([]client.HeldToken, error) {
			return nil, errors.New("indexer down")
		},
	})

	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	_, err = d.Claim(authorizedCtx, &model.ClaimPointsRequest{
		ProjectID: collection.ProjectID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.UpstreamUnavailable, err.(errorx.Error).Code)

	// Nothing was committed.
	staker, err := repository.NewStakerRepository().Get(ctx, testWallet1, collection.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), staker.Points)
}

func Test_stakingDomain_Claim_notRegistered(t *testing.T) {
	ctx := testutil.MockContext()
	project, err := testutil.SampleProject(ctx, nil)
	require.NoError(t, err)

	d := newStakingDomain(twoTokenHoldings())

	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	_, err = d.Claim(authorizedCtx, &model.ClaimPointsRequest{ProjectID: project.ID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_stakingDomain_GetClaimable(t *testing.T) {
	ctx := testutil.MockContext()
	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)
	createDefaultRate(t, ctx, collection.ID, 1)

	_, err = testutil.SampleStaker(ctx, &entity.Staker{
		WalletAddress: testWallet1,
		CollectionID:  collection.ID,
		LastClaimedAt: sql.NullTime{Valid: true, Time: time.Now().Add(-12 * time.Hour)},
	})
	require.NoError(t, err)

	d := newStakingDomain(twoTokenHoldings())

	// Half a day at one point per day and two tokens: the estimate shows
	// the fraction a claim would not yet commit.
	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.GetClaimable(authorizedCtx, &model.GetClaimableRequest{
		ProjectID: collection.ProjectID,
	})
	require.NoError(t, err)
	require.InDelta(t, 1.0, resp.TotalPoints, 0.01)

	// The estimate persists nothing.
	staker, err := repository.NewStakerRepository().Get(ctx, testWallet1, collection.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), staker.Points)
}

func Test_stakingDomain_CreateAttributeRate(t *testing.T) {
	ctx := testutil.MockContext()
	project, err := testutil.SampleProject(ctx, &entity.Project{CreatedBy: testWallet1})
	require.NoError(t, err)
	collection, err := testutil.SampleCollection(ctx, &entity.Collection{ProjectID: project.ID})
	require.NoError(t, err)

	d := newStakingDomain(twoTokenHoldings())

	ownerCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.CreateAttributeRate(ownerCtx, &model.CreateAttributeRateRequest{
		CollectionID: collection.ID,
		TraitType:    "Background",
		TraitValue:   "Gold",
		Unit:         "day",
		Rate:         5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	rates, err := d.GetAttributeRates(ctx, &model.GetAttributeRatesRequest{
		CollectionID: collection.ID,
	})
	require.NoError(t, err)
	require.Len(t, rates.Rates, 1)
	require.Equal(t, "Background", rates.Rates[0].TraitType)

	// Only the project owner manages rates.
	strangerCtx := testutil.MockContextWithWallet(ctx, testWallet2)
	_, err = d.CreateAttributeRate(strangerCtx, &model.CreateAttributeRateRequest{
		CollectionID: collection.ID,
		Unit:         "day",
		Rate:         1,
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	// Unknown units and non-positive rates are rejected.
	_, err = d.CreateAttributeRate(ownerCtx, &model.CreateAttributeRateRequest{
		CollectionID: collection.ID,
		Unit:         "fortnight",
		Rate:         1,
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.CreateAttributeRate(ownerCtx, &model.CreateAttributeRateRequest{
		CollectionID: collection.ID,
		Unit:         "day",
		Rate:         0,
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// Delete requires ownership too.
	_, err = d.DeleteAttributeRate(strangerCtx, &model.DeleteAttributeRateRequest{ID: resp.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = d.DeleteAttributeRate(ownerCtx, &model.DeleteAttributeRateRequest{ID: resp.ID})
	require.NoError(t, err)

	rates, err = d.GetAttributeRates(ctx, &model.GetAttributeRatesRequest{
		CollectionID: collection.ID,
	})
	require.NoError(t, err)
	require.Empty(t, rates.Rates)
}
