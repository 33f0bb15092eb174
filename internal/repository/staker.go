package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// WalletStanding is one leaderboard row: a wallet's totals aggregated across
// every collection in scope.
type WalletStanding struct {
	WalletAddress string
	TotalPoints   uint64
	TotalHeldNfts int
}

type LeaderboardFilter struct {
	// ProjectID scopes the aggregation. Empty means global.
	ProjectID string

	Offset int
	Limit  int
}

type StakerRepository interface {
	Get(ctx context.Context, walletAddress, collectionID string) (*entity.Staker, error)
	GetByWalletAndProject(ctx context.Context, walletAddress, projectID string) ([]entity.Staker, error)
	Create(ctx context.Context, staker *entity.Staker) error

	// ApplyClaim commits one accrual: it adds points, advances the checkpoint
	// to now, and stores the held-token snapshot. The update only succeeds if
	// the checkpoint still equals the value the accrual was computed from, so
	// the loser of two concurrent claims gets gorm.ErrRecordNotFound.
	ApplyClaim(
		ctx context.Context,
		walletAddress, collectionID string,
		points uint64, heldNfts int,
		checkpoint sql.NullTime, now time.Time,
	) error

	DecreasePoint(ctx context.Context, walletAddress, collectionID string, points uint64) error

	GetLeaderboard(ctx context.Context, filter LeaderboardFilter) ([]WalletStanding, error)
	GetStanding(ctx context.Context, projectID, walletAddress string) (*WalletStanding, error)
	CountStrictlyHigher(ctx context.Context, projectID string, points uint64) (int64, error)
}

type stakerRepository struct{}

func NewStakerRepository() *stakerRepository {
	return &stakerRepository{}
}

func (r *stakerRepository) Get(ctx context.Context, walletAddress, collectionID string) (*entity.Staker, error) {
	var result entity.Staker
	err := xcontext.DB(ctx).
		Where("wallet_address=? AND collection_id=?", walletAddress, collectionID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *stakerRepository) GetByWalletAndProject(
	ctx context.Context, walletAddress, projectID string,
) ([]entity.Staker, error) {
	var result []entity.Staker
	err := xcontext.DB(ctx).Model(&entity.Staker{}).
		Joins("join collections on collections.id=stakers.collection_id").
		Where("stakers.wallet_address=? AND collections.project_id=?", walletAddress, projectID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stakerRepository) Create(ctx context.Context, staker *entity.Staker) error {
	return xcontext.DB(ctx).Create(staker).Error
}

func (r *stakerRepository) ApplyClaim(
	ctx context.Context,
	walletAddress, collectionID string,
	points uint64, heldNfts int,
	checkpoint sql.NullTime, now time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Staker{}).
		Where("wallet_address=? AND collection_id=?", walletAddress, collectionID)

	if checkpoint.Valid {
		tx = tx.Where("last_claimed_at=?", checkpoint.Time)
	} else {
		tx = tx.Where("last_claimed_at IS NULL")
	}

	tx = tx.Updates(map[string]any{
		"points":          gorm.Expr("points+?", points),
		"last_claimed_at": now,
		"held_nfts":       heldNfts,
	})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *stakerRepository) DecreasePoint(
	ctx context.Context, walletAddress, collectionID string, points uint64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Staker{}).
		Where("wallet_address=? AND collection_id=? AND points >= ?",
			walletAddress, collectionID, points).
		Update("points", gorm.Expr("points-?", points))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *stakerRepository) GetLeaderboard(
	ctx context.Context, filter LeaderboardFilter,
) ([]WalletStanding, error) {
	tx := r.standingQuery(ctx, filter.ProjectID).
		Order("total_points DESC, wallet_address ASC").
		Offset(filter.Offset).Limit(filter.Limit)

	var result []WalletStanding
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stakerRepository) GetStanding(
	ctx context.Context, projectID, walletAddress string,
) (*WalletStanding, error) {
	tx := r.standingQuery(ctx, projectID).
		Having("stakers.wallet_address=?", walletAddress)

	var result []WalletStanding
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &result[0], nil
}

func (r *stakerRepository) CountStrictlyHigher(
	ctx context.Context, projectID string, points uint64,
) (int64, error) {
	sub := r.standingQuery(ctx, projectID).
		Having("SUM(stakers.points) > ?", points)

	var count int64
	err := xcontext.DB(ctx).Table("(?) as standings", sub).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *stakerRepository) standingQuery(ctx context.Context, projectID string) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.Staker{}).
		Select("stakers.wallet_address AS wallet_address, " +
			"SUM(stakers.points) AS total_points, " +
			"SUM(stakers.held_nfts) AS total_held_nfts").
		Group("stakers.wallet_address")

	if projectID != "" {
		tx = tx.
			Joins("join collections on collections.id=stakers.collection_id").
			Where("collections.project_id=?", projectID)
	}

	return tx
}
