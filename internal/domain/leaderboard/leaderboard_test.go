package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/testutil"
)

func Test_leaderboard_ChangePoint(t *testing.T) {
	ctx := testutil.MockContext()

	warm := map[string]bool{"leaderboard:point:global": true}
	increments := map[string]int64{}
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return warm[key], nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			increments[key] += incr
			return nil
		},
	}

	l := New(repository.NewStakerRepository(), redisClient)

	// Only warm keys are kept in sync; a cold project key is left for the
	// next read to rebuild.
	l.ChangePoint(ctx, "project-1", "0xabc", 25)
	require.Equal(t, map[string]int64{"leaderboard:point:global": 25}, increments)

	warm["leaderboard:point:project-1"] = true
	l.ChangePoint(ctx, "project-1", "0xabc", -10)
	require.Equal(t, map[string]int64{
		"leaderboard:point:global":    15,
		"leaderboard:point:project-1": -10,
	}, increments)
}

func Test_leaderboard_GetLeaderboard_scoped(t *testing.T) {
	ctx := testutil.MockContext()

	collection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)
	otherCollection, err := testutil.SampleCollection(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.SampleStaker(ctx, &entity.Staker{
		WalletAddress: "0xaaa", CollectionID: collection.ID, Points: 7,
	})
	require.NoError(t, err)
	_, err = testutil.SampleStaker(ctx, &entity.Staker{
		WalletAddress: "0xbbb", CollectionID: otherCollection.ID, Points: 9,
	})
	require.NoError(t, err)

	l := New(repository.NewStakerRepository(), &testutil.MockRedisClient{})

	standings, err := l.GetLeaderboard(ctx, collection.ProjectID, 0, 10)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	require.Equal(t, "0xaaa", standings[0].WalletAddress)

	standings, err = l.GetLeaderboard(ctx, "", 0, 10)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	require.Equal(t, "0xbbb", standings[0].WalletAddress)
}
