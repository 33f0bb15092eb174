package repository

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type AttributeRateRepository interface {
	Create(ctx context.Context, rate *entity.AttributeRate) error
	GetByID(ctx context.Context, id string) (*entity.AttributeRate, error)
	GetByCollectionID(ctx context.Context, collectionID string) ([]entity.AttributeRate, error)
	DeleteByID(ctx context.Context, id string) error
}

type attributeRateRepository struct{}

func NewAttributeRateRepository() *attributeRateRepository {
	return &attributeRateRepository{}
}

func (r *attributeRateRepository) Create(ctx context.Context, rate *entity.AttributeRate) error {
	return xcontext.DB(ctx).Create(rate).Error
}

func (r *attributeRateRepository) GetByID(ctx context.Context, id string) (*entity.AttributeRate, error) {
	var result entity.AttributeRate
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *attributeRateRepository) GetByCollectionID(
	ctx context.Context, collectionID string,
) ([]entity.AttributeRate, error) {
	var result []entity.AttributeRate
	err := xcontext.DB(ctx).Find(&result, "collection_id=?", collectionID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *attributeRateRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.AttributeRate{}, "id=?", id).Error
}
