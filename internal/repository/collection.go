package repository

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	GetByID(ctx context.Context, id string) (*entity.Collection, error)
	GetByProjectID(ctx context.Context, projectID string) ([]entity.Collection, error)
	GetByContractAddress(ctx context.Context, chain, address string) (*entity.Collection, error)
}

type collectionRepository struct{}

func NewCollectionRepository() *collectionRepository {
	return &collectionRepository{}
}

func (r *collectionRepository) Create(ctx context.Context, collection *entity.Collection) error {
	return xcontext.DB(ctx).Create(collection).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id string) (*entity.Collection, error) {
	var result entity.Collection
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectionRepository) GetByProjectID(ctx context.Context, projectID string) ([]entity.Collection, error) {
	var result []entity.Collection
	err := xcontext.DB(ctx).Find(&result, "project_id=?", projectID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *collectionRepository) GetByContractAddress(
	ctx context.Context, chain, address string,
) (*entity.Collection, error) {
	var result entity.Collection
	err := xcontext.DB(ctx).
		Where("chain=? AND contract_address=?", chain, address).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
