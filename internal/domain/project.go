package domain

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ProjectDomain interface {
	Create(context.Context, *model.CreateProjectRequest) (*model.CreateProjectResponse, error)
	Get(context.Context, *model.GetProjectRequest) (*model.GetProjectResponse, error)
	GetList(context.Context, *model.GetListProjectRequest) (*model.GetListProjectResponse, error)
	CreateCollection(context.Context, *model.CreateCollectionRequest) (*model.CreateCollectionResponse, error)
}

type projectDomain struct {
	projectRepo    repository.ProjectRepository
	collectionRepo repository.CollectionRepository
}

func NewProjectDomain(
	projectRepo repository.ProjectRepository,
	collectionRepo repository.CollectionRepository,
) *projectDomain {
	return &projectDomain{projectRepo: projectRepo, collectionRepo: collectionRepo}
}

func (d *projectDomain) Create(
	ctx context.Context, req *model.CreateProjectRequest,
) (*model.CreateProjectResponse, error) {
	if req.Name == "" || req.Handle == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name or handle")
	}

	if _, err := d.projectRepo.GetByHandle(ctx, req.Handle); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "The handle is used by another project")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get project by handle: %v", err)
		return nil, errorx.Unknown
	}

	project := &entity.Project{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         req.Name,
		Handle:       req.Handle,
		CreatedBy:    xcontext.RequestWallet(ctx),
		Introduction: []byte(req.Introduction),
		WebsiteURL:   req.WebsiteURL,
	}

	if err := d.projectRepo.Create(ctx, project); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create project: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateProjectResponse{ID: project.ID, Handle: project.Handle}, nil
}

func (d *projectDomain) Get(
	ctx context.Context, req *model.GetProjectRequest,
) (*model.GetProjectResponse, error) {
	project, err := d.projectRepo.GetByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	collections, err := d.collectionRepo.GetByProjectID(ctx, project.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collections of project: %v", err)
		return nil, errorx.Unknown
	}

	clientCollections := []model.Collection{}
	for i := range collections {
		clientCollections = append(clientCollections, convertCollection(&collections[i]))
	}

	return &model.GetProjectResponse{
		Project:     convertProject(project),
		Collections: clientCollections,
	}, nil
}

func (d *projectDomain) GetList(
	ctx context.Context, req *model.GetListProjectRequest,
) (*model.GetListProjectResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	projects, err := d.projectRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of projects: %v", err)
		return nil, errorx.Unknown
	}

	clientProjects := []model.Project{}
	for i := range projects {
		clientProjects = append(clientProjects, convertProject(&projects[i]))
	}

	return &model.GetListProjectResponse{Projects: clientProjects}, nil
}

func (d *projectDomain) CreateCollection(
	ctx context.Context, req *model.CreateCollectionRequest,
) (*model.CreateCollectionResponse, error) {
	if !common.IsHexAddress(req.ContractAddress) {
		return nil, errorx.New(errorx.BadRequest, "Invalid contract address")
	}

	project, err := d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	if project.CreatedBy != xcontext.RequestWallet(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.collectionRepo.GetByContractAddress(ctx, req.Chain, req.ContractAddress); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "The collection is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get collection by contract: %v", err)
		return nil, errorx.Unknown
	}

	collection := &entity.Collection{
		Base:            entity.Base{ID: uuid.NewString()},
		ProjectID:       project.ID,
		Chain:           req.Chain,
		ContractAddress: req.ContractAddress,
		Name:            req.Name,
		ImageUrl:        req.ImageUrl,
	}

	if err := d.collectionRepo.Create(ctx, collection); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create collection: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCollectionResponse{ID: collection.ID}, nil
}
