package repository

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RaffleRepository interface {
	// Raffle
	Create(ctx context.Context, raffle *entity.Raffle) error
	GetByID(ctx context.Context, raffleID string) (*entity.Raffle, error)
	GetByProjectID(ctx context.Context, projectID string, offset, limit int) ([]entity.Raffle, error)
	CheckAndUseTickets(ctx context.Context, raffleID string, amount int) error

	// Participant
	CreateParticipant(ctx context.Context, participant *entity.RaffleParticipant) error
	GetParticipantsByRaffleID(ctx context.Context, raffleID string) ([]entity.RaffleParticipant, error)

	// Reward
	CreateReward(ctx context.Context, reward *entity.RaffleReward) error
	GetRewardsByRaffleID(ctx context.Context, raffleID string) ([]entity.RaffleReward, error)
	AssignRewardWinner(ctx context.Context, rewardID, walletAddress string) error
	CountAssignedRewards(ctx context.Context, raffleID string) (int64, error)
}

type raffleRepository struct{}

func NewRaffleRepository() *raffleRepository {
	return &raffleRepository{}
}

func (r *raffleRepository) Create(ctx context.Context, raffle *entity.Raffle) error {
	return xcontext.DB(ctx).Create(raffle).Error
}

func (r *raffleRepository) GetByID(ctx context.Context, raffleID string) (*entity.Raffle, error) {
	var result entity.Raffle
	if err := xcontext.DB(ctx).Take(&result, "id=?", raffleID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) GetByProjectID(
	ctx context.Context, projectID string, offset, limit int,
) ([]entity.Raffle, error) {
	var result []entity.Raffle
	err := xcontext.DB(ctx).
		Where("project_id=?", projectID).
		Order("start_time DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *raffleRepository) CheckAndUseTickets(ctx context.Context, raffleID string, amount int) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND (max_tickets=0 OR used_tickets+? <= max_tickets)", raffleID, amount).
		Update("used_tickets", gorm.Expr("used_tickets+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) CreateParticipant(
	ctx context.Context, participant *entity.RaffleParticipant,
) error {
	return xcontext.DB(ctx).Create(participant).Error
}

func (r *raffleRepository) GetParticipantsByRaffleID(
	ctx context.Context, raffleID string,
) ([]entity.RaffleParticipant, error) {
	var result []entity.RaffleParticipant
	err := xcontext.DB(ctx).
		Where("raffle_id=?", raffleID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *raffleRepository) CreateReward(ctx context.Context, reward *entity.RaffleReward) error {
	return xcontext.DB(ctx).Create(reward).Error
}

func (r *raffleRepository) GetRewardsByRaffleID(
	ctx context.Context, raffleID string,
) ([]entity.RaffleReward, error) {
	var result []entity.RaffleReward
	err := xcontext.DB(ctx).
		Where("raffle_id=?", raffleID).
		Order("reward_index ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AssignRewardWinner is the single-assignment guard of the draw: the update
// only succeeds while win_address is still unset.
func (r *raffleRepository) AssignRewardWinner(
	ctx context.Context, rewardID, walletAddress string,
) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleReward{}).
		Where("id=? AND win_address IS NULL", rewardID).
		Update("win_address", walletAddress)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) CountAssignedRewards(
	ctx context.Context, raffleID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.RaffleReward{}).
		Where("raffle_id=? AND win_address IS NOT NULL", raffleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
