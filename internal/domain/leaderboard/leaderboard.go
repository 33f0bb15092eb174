package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"github.com/stakepoint-labs/backend/pkg/xredis"
	"gorm.io/gorm"
)

type Leaderboard interface {
	GetLeaderboard(ctx context.Context, projectID string, offset, limit int) ([]model.WalletStanding, error)
	GetRank(ctx context.Context, projectID, walletAddress string) (*model.WalletStanding, error)

	// ChangePoint keeps the cached score set in sync with a committed point
	// change. It is best-effort; the database is the source of truth.
	ChangePoint(ctx context.Context, projectID, walletAddress string, value int64)
}

type leaderboard struct {
	stakerRepo  repository.StakerRepository
	redisClient xredis.Client
}

func New(stakerRepo repository.StakerRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{stakerRepo: stakerRepo, redisClient: redisClient}
}

// GetLeaderboard always reads the database. The aggregation query carries
// the tie-break (total points descending, then wallet address ascending)
// which a score-only cache cannot reproduce.
func (l *leaderboard) GetLeaderboard(
	ctx context.Context, projectID string, offset, limit int,
) ([]model.WalletStanding, error) {
	standings, err := l.stakerRepo.GetLeaderboard(ctx, repository.LeaderboardFilter{
		ProjectID: projectID,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.WalletStanding{}
	for i, s := range standings {
		result = append(result, model.WalletStanding{
			WalletAddress: s.WalletAddress,
			TotalPoints:   s.TotalPoints,
			TotalHeldNfts: s.TotalHeldNfts,
			CurrentRank:   offset + i + 1,
		})
	}

	return result, nil
}

// GetRank resolves the rank of a wallet as one plus the number of wallets
// with strictly more points, so tied wallets share a rank. The count comes
// from the cached score set when it is warm, and from the database
// otherwise.
func (l *leaderboard) GetRank(
	ctx context.Context, projectID, walletAddress string,
) (*model.WalletStanding, error) {
	standing, err := l.stakerRepo.GetStanding(ctx, projectID, walletAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found wallet in leaderboard")
		}

		xcontext.Logger(ctx).Errorf("Cannot get standing: %v", err)
		return nil, errorx.Unknown
	}

	higher, err := l.countStrictlyHigher(ctx, projectID, standing.TotalPoints)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count higher standings: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WalletStanding{
		WalletAddress: standing.WalletAddress,
		TotalPoints:   standing.TotalPoints,
		TotalHeldNfts: standing.TotalHeldNfts,
		CurrentRank:   int(higher) + 1,
	}, nil
}

func (l *leaderboard) ChangePoint(
	ctx context.Context, projectID, walletAddress string, value int64,
) {
	for _, key := range []string{redisKeyLeaderboard(""), redisKeyLeaderboard(projectID)} {
		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
			return
		}

		// A cold key is rebuilt from database on the next read; there is
		// nothing to keep in sync.
		if !ok {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, key, value, walletAddress); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
		}
	}
}

func (l *leaderboard) countStrictlyHigher(
	ctx context.Context, projectID string, points uint64,
) (int64, error) {
	key := redisKeyLeaderboard(projectID)
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return l.stakerRepo.CountStrictlyHigher(ctx, projectID, points)
	}

	if !ok {
		if err := l.loadFromDB(ctx, projectID); err != nil {
			return l.stakerRepo.CountStrictlyHigher(ctx, projectID, points)
		}
	}

	higher, err := l.redisClient.ZCount(ctx, key, fmt.Sprintf("(%d", points), "+inf")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZCount redis: %v", err)
		return l.stakerRepo.CountStrictlyHigher(ctx, projectID, points)
	}

	return higher, nil
}

func (l *leaderboard) loadFromDB(ctx context.Context, projectID string) error {
	standings, err := l.stakerRepo.GetLeaderboard(ctx, repository.LeaderboardFilter{
		ProjectID: projectID,
		Offset:    -1,
		Limit:     -1,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load leaderboard from database: %v", err)
		return err
	}

	key := redisKeyLeaderboard(projectID)

	// An earlier partial load may have left a subset behind; the rebuild
	// must start from an empty set.
	if err := l.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot del redis key: %v", err)
		return err
	}

	for _, s := range standings {
		err := l.redisClient.ZAdd(ctx, key, redis.Z{
			Member: s.WalletAddress,
			Score:  float64(s.TotalPoints),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return err
		}
	}

	return nil
}

func redisKeyLeaderboard(projectID string) string {
	if projectID == "" {
		return "leaderboard:point:global"
	}

	return fmt.Sprintf("leaderboard:point:%s", projectID)
}
