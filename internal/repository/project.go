package repository

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Project, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Project, error)
}

type projectRepository struct{}

func NewProjectRepository() *projectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	return xcontext.DB(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var result entity.Project
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *projectRepository) GetByHandle(ctx context.Context, handle string) (*entity.Project, error) {
	var result entity.Project
	if err := xcontext.DB(ctx).Take(&result, "handle=?", handle).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *projectRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Project, error) {
	var result []entity.Project
	err := xcontext.DB(ctx).Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
