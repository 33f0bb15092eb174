package repository

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type PointLedgerRepository interface {
	Create(ctx context.Context, ledger *entity.PointLedger) error
	GetByWallet(ctx context.Context, walletAddress string, offset, limit int) ([]entity.PointLedger, error)
}

type pointLedgerRepository struct{}

func NewPointLedgerRepository() *pointLedgerRepository {
	return &pointLedgerRepository{}
}

func (r *pointLedgerRepository) Create(ctx context.Context, ledger *entity.PointLedger) error {
	return xcontext.DB(ctx).Create(ledger).Error
}

func (r *pointLedgerRepository) GetByWallet(
	ctx context.Context, walletAddress string, offset, limit int,
) ([]entity.PointLedger, error) {
	var result []entity.PointLedger
	err := xcontext.DB(ctx).
		Where("wallet_address=?", walletAddress).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
