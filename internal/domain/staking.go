package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/stakepoint-labs/backend/internal/client"
	"github.com/stakepoint-labs/backend/internal/domain/accrual"
	"github.com/stakepoint-labs/backend/internal/domain/leaderboard"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/enum"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/pubsub"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const TopicPointClaimed = "point_claimed"

type StakingDomain interface {
	Register(context.Context, *model.RegisterStakerRequest) (*model.RegisterStakerResponse, error)
	Claim(context.Context, *model.ClaimPointsRequest) (*model.ClaimPointsResponse, error)
	GetClaimable(context.Context, *model.GetClaimableRequest) (*model.GetClaimableResponse, error)
	GetPointLedger(context.Context, *model.GetPointLedgerRequest) (*model.GetPointLedgerResponse, error)

	CreateAttributeRate(context.Context, *model.CreateAttributeRateRequest) (*model.CreateAttributeRateResponse, error)
	GetAttributeRates(context.Context, *model.GetAttributeRatesRequest) (*model.GetAttributeRatesResponse, error)
	DeleteAttributeRate(context.Context, *model.DeleteAttributeRateRequest) (*model.DeleteAttributeRateResponse, error)
}

type stakingDomain struct {
	stakerRepo        repository.StakerRepository
	collectionRepo    repository.CollectionRepository
	projectRepo       repository.ProjectRepository
	attributeRateRepo repository.AttributeRateRepository
	pointLedgerRepo   repository.PointLedgerRepository
	holdingsCaller    client.HoldingsCaller
	leaderboard       leaderboard.Leaderboard
	publisher         pubsub.Publisher
}

func NewStakingDomain(
	stakerRepo repository.StakerRepository,
	collectionRepo repository.CollectionRepository,
	projectRepo repository.ProjectRepository,
	attributeRateRepo repository.AttributeRateRepository,
	pointLedgerRepo repository.PointLedgerRepository,
	holdingsCaller client.HoldingsCaller,
	leaderboard leaderboard.Leaderboard,
	publisher pubsub.Publisher,
) *stakingDomain {
	return &stakingDomain{
		stakerRepo:        stakerRepo,
		collectionRepo:    collectionRepo,
		projectRepo:       projectRepo,
		attributeRateRepo: attributeRateRepo,
		pointLedgerRepo:   pointLedgerRepo,
		holdingsCaller:    holdingsCaller,
		leaderboard:       leaderboard,
		publisher:         publisher,
	}
}

func (d *stakingDomain) Register(
	ctx context.Context, req *model.RegisterStakerRequest,
) (*model.RegisterStakerResponse, error) {
	walletAddress := xcontext.RequestWallet(ctx)
	if !common.IsHexAddress(walletAddress) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address")
	}

	collection, err := d.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found collection")
		}

		xcontext.Logger(ctx).Errorf("Cannot get collection: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.stakerRepo.Get(ctx, walletAddress, collection.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Already registered to this collection")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get staker: %v", err)
		return nil, errorx.Unknown
	}

	// The initial held-token snapshot is cosmetic; registration must not
	// fail because the indexer is down.
	heldNfts := 0
	tokens, err := d.holdingsCaller.GetHoldings(
		ctx, collection.Chain, walletAddress, collection.ContractAddress)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get holdings at registration: %v", err)
	} else {
		heldNfts = len(tokens)
	}

	staker := &entity.Staker{
		WalletAddress: walletAddress,
		CollectionID:  collection.ID,
		Points:        0,
		HeldNfts:      heldNfts,
	}

	if err := d.stakerRepo.Create(ctx, staker); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create staker: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterStakerResponse{Staker: convertStaker(staker)}, nil
}

// Claim settles the accrued points of every collection the wallet staked in
// the project. The settlement is all-or-nothing: one indexer failure or one
// checkpoint conflict rolls back the whole claim, so a retry always sees a
// consistent state.
func (d *stakingDomain) Claim(
	ctx context.Context, req *model.ClaimPointsRequest,
) (*model.ClaimPointsResponse, error) {
	walletAddress := xcontext.RequestWallet(ctx)
	now := time.Now()

	accruals, err := d.computeAccruals(ctx, walletAddress, req.ProjectID, now)
	if err != nil {
		return nil, err
	}

	minCommit := xcontext.Configs(ctx).Accrual.MinCommitPoints

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	resp := &model.ClaimPointsResponse{Collections: []model.CollectionClaim{}}
	for _, a := range accruals {
		amount := accrual.CommitAmount(a.points)
		if amount < minCommit {
			// Below the precision floor nothing is persisted and the
			// checkpoint stays put, so the fraction keeps accruing.
			continue
		}

		err := d.stakerRepo.ApplyClaim(
			ctx, walletAddress, a.staker.CollectionID,
			amount, len(a.tokens), a.staker.LastClaimedAt, now,
		)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.TooManyRequests,
					"Another claim is in progress, try again later")
			}

			xcontext.Logger(ctx).Errorf("Cannot apply claim: %v", err)
			return nil, errorx.Unknown
		}

		window := claimWindow{To: now.Format(time.RFC3339Nano), AccruedPoints: a.points}
		if a.staker.LastClaimedAt.Valid {
			window.From = a.staker.LastClaimedAt.Time.Format(time.RFC3339Nano)
		}

		ledger := &entity.PointLedger{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			WalletAddress: walletAddress,
			CollectionID:  a.staker.CollectionID,
			Amount:        amount,
			HeldNfts:      len(a.tokens),
			Metadata:      structs.Map(window),
		}

		if err := d.pointLedgerRepo.Create(ctx, ledger); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create point ledger: %v", err)
			return nil, errorx.Unknown
		}

		resp.TotalPoints += amount
		resp.Collections = append(resp.Collections, model.CollectionClaim{
			CollectionID: a.staker.CollectionID,
			Points:       amount,
			HeldNfts:     len(a.tokens),
		})
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	if resp.TotalPoints > 0 {
		d.leaderboard.ChangePoint(ctx, req.ProjectID, walletAddress, int64(resp.TotalPoints))

		msg, err := json.Marshal(resp)
		if err == nil {
			err = d.publisher.Publish(ctx, TopicPointClaimed,
				&pubsub.Pack{Key: []byte(walletAddress), Msg: msg})
		}
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish claim event: %v", err)
		}
	}

	return resp, nil
}

func (d *stakingDomain) GetClaimable(
	ctx context.Context, req *model.GetClaimableRequest,
) (*model.GetClaimableResponse, error) {
	walletAddress := xcontext.RequestWallet(ctx)

	accruals, err := d.computeAccruals(ctx, walletAddress, req.ProjectID, time.Now())
	if err != nil {
		return nil, err
	}

	resp := &model.GetClaimableResponse{Collections: []model.ClaimableCollection{}}
	for _, a := range accruals {
		resp.TotalPoints += a.points
		resp.Collections = append(resp.Collections, model.ClaimableCollection{
			CollectionID: a.staker.CollectionID,
			Points:       a.points,
			HeldNfts:     len(a.tokens),
		})
	}

	return resp, nil
}

// claimWindow goes into the ledger metadata column. From is empty on the
// first claim of a staker.
type claimWindow struct {
	From          string  `structs:"from"`
	To            string  `structs:"to"`
	AccruedPoints float64 `structs:"accrued_points"`
}

type collectionAccrual struct {
	staker entity.Staker
	tokens []client.HeldToken
	points float64
}

func (d *stakingDomain) computeAccruals(
	ctx context.Context, walletAddress, projectID string, now time.Time,
) ([]collectionAccrual, error) {
	stakers, err := d.stakerRepo.GetByWalletAndProject(ctx, walletAddress, projectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stakers of wallet: %v", err)
		return nil, errorx.Unknown
	}

	if len(stakers) == 0 {
		return nil, errorx.New(errorx.NotFound, "Not registered to any collection of this project")
	}

	collections, err := d.collectionRepo.GetByProjectID(ctx, projectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collections of project: %v", err)
		return nil, errorx.Unknown
	}

	collectionByID := map[string]entity.Collection{}
	for _, c := range collections {
		collectionByID[c.ID] = c
	}

	accruals := []collectionAccrual{}
	for _, staker := range stakers {
		collection, ok := collectionByID[staker.CollectionID]
		if !ok {
			xcontext.Logger(ctx).Errorf("Inconsistent collection %s of staker", staker.CollectionID)
			return nil, errorx.Unknown
		}

		rates, err := d.attributeRateRepo.GetByCollectionID(ctx, collection.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get attribute rates: %v", err)
			return nil, errorx.Unknown
		}

		tokens, err := d.holdingsCaller.GetHoldings(
			ctx, collection.Chain, walletAddress, collection.ContractAddress)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get holdings: %v", err)
			return nil, errorx.New(errorx.UpstreamUnavailable,
				"The holdings indexer is unavailable, try again later")
		}

		accruals = append(accruals, collectionAccrual{
			staker: staker,
			tokens: tokens,
			points: accrual.Compute(staker.Checkpoint(), now, tokens, accrual.NewRateTable(rates)),
		})
	}

	return accruals, nil
}

func (d *stakingDomain) GetPointLedger(
	ctx context.Context, req *model.GetPointLedgerRequest,
) (*model.GetPointLedgerResponse, error) {
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

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	entries, err := d.pointLedgerRepo.GetByWallet(
		ctx, xcontext.RequestWallet(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point ledger: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPointLedgerResponse{Entries: []model.PointLedgerEntry{}}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, model.PointLedgerEntry{
			ID:           e.ID,
			CollectionID: e.CollectionID,
			Amount:       e.Amount,
			HeldNfts:     e.HeldNfts,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	return resp, nil
}

func (d *stakingDomain) CreateAttributeRate(
	ctx context.Context, req *model.CreateAttributeRateRequest,
) (*model.CreateAttributeRateResponse, error) {
	if req.Rate <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Rate must be a positive number")
	}

	unit, err := enum.ToEnum[entity.RateUnit](req.Unit)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid rate unit %s", req.Unit)
	}

	if req.TraitType == "" && req.TraitValue != "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow a trait value without a trait type")
	}

	collection, err := d.verifyCollectionOwner(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}

	rate := &entity.AttributeRate{
		Base:         entity.Base{ID: uuid.NewString()},
		CollectionID: collection.ID,
		TraitType:    sql.NullString{Valid: req.TraitType != "", String: req.TraitType},
		TraitValue:   sql.NullString{Valid: req.TraitValue != "", String: req.TraitValue},
		Unit:         unit,
		Rate:         req.Rate,
	}

	if err := d.attributeRateRepo.Create(ctx, rate); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create attribute rate: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateAttributeRateResponse{ID: rate.ID}, nil
}

func (d *stakingDomain) GetAttributeRates(
	ctx context.Context, req *model.GetAttributeRatesRequest,
) (*model.GetAttributeRatesResponse, error) {
	rates, err := d.attributeRateRepo.GetByCollectionID(ctx, req.CollectionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get attribute rates: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetAttributeRatesResponse{Rates: []model.AttributeRate{}}
	for i := range rates {
		resp.Rates = append(resp.Rates, convertAttributeRate(&rates[i]))
	}

	return resp, nil
}

func (d *stakingDomain) DeleteAttributeRate(
	ctx context.Context, req *model.DeleteAttributeRateRequest,
) (*model.DeleteAttributeRateResponse, error) {
	rate, err := d.attributeRateRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found attribute rate")
		}

		xcontext.Logger(ctx).Errorf("Cannot get attribute rate: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.verifyCollectionOwner(ctx, rate.CollectionID); err != nil {
		return nil, err
	}

	if err := d.attributeRateRepo.DeleteByID(ctx, rate.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete attribute rate: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteAttributeRateResponse{}, nil
}

func (d *stakingDomain) verifyCollectionOwner(
	ctx context.Context, collectionID string,
) (*entity.Collection, error) {
	collection, err := d.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found collection")
		}

		xcontext.Logger(ctx).Errorf("Cannot get collection: %v", err)
		return nil, errorx.Unknown
	}

	project, err := d.projectRepo.GetByID(ctx, collection.ProjectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project of collection: %v", err)
		return nil, errorx.Unknown
	}

	if project.CreatedBy != xcontext.RequestWallet(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return collection, nil
}
