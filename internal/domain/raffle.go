package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/math"
	"github.com/stakepoint-labs/backend/internal/domain/leaderboard"
	"github.com/stakepoint-labs/backend/internal/domain/raffledraw"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/pubsub"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const TopicRaffleDrawn = "raffle_drawn"

// Bounds a single purchase. The draw expands one pool slot per ticket, so the
// ticket count must stay far away from anything that could wrap the cost
// multiplication or blow up the pool.
const maxTicketsPerPurchase = 100_000

type RaffleDomain interface {
	Create(context.Context, *model.CreateRaffleRequest) (*model.CreateRaffleResponse, error)
	Get(context.Context, *model.GetRaffleRequest) (*model.GetRaffleResponse, error)
	GetList(context.Context, *model.GetListRaffleRequest) (*model.GetListRaffleResponse, error)
	BuyTickets(context.Context, *model.BuyRaffleTicketsRequest) (*model.BuyRaffleTicketsResponse, error)
	Draw(context.Context, *model.DrawRaffleRequest) (*model.DrawRaffleResponse, error)
}

type raffleDomain struct {
	raffleRepo  repository.RaffleRepository
	stakerRepo  repository.StakerRepository
	projectRepo repository.ProjectRepository
	leaderboard leaderboard.Leaderboard
	publisher   pubsub.Publisher
	drawSource  raffledraw.Source
}

func NewRaffleDomain(
	raffleRepo repository.RaffleRepository,
	stakerRepo repository.StakerRepository,
	projectRepo repository.ProjectRepository,
	leaderboard leaderboard.Leaderboard,
	publisher pubsub.Publisher,
	drawSource raffledraw.Source,
) *raffleDomain {
	return &raffleDomain{
		raffleRepo:  raffleRepo,
		stakerRepo:  stakerRepo,
		projectRepo: projectRepo,
		leaderboard: leaderboard,
		publisher:   publisher,
		drawSource:  drawSource,
	}
}

func (d *raffleDomain) Create(
	ctx context.Context, req *model.CreateRaffleRequest,
) (*model.CreateRaffleResponse, error) {
	if req.StartTime.After(req.EndTime) {
		return nil, errorx.New(errorx.BadRequest, "Invalid raffle time")
	}

	if req.MaxTickets < 0 {
		return nil, errorx.New(errorx.BadRequest, "The max number of tickets must not be negative")
	}

	if len(req.Rewards) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a raffle without rewards")
	}

	for i, reward := range req.Rewards {
		if reward.InjectedWinner != "" && !common.IsHexAddress(reward.InjectedWinner) {
			return nil, errorx.New(errorx.BadRequest, "Invalid injected winner of reward %d", i+1)
		}
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

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	raffle := &entity.Raffle{
		Base:           entity.Base{ID: uuid.NewString()},
		ProjectID:      project.ID,
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		PointPerTicket: req.PointPerTicket,
		MaxTickets:     req.MaxTickets,
		UsedTickets:    0,
		CreatedBy:      xcontext.RequestWallet(ctx),
	}

	if err := d.raffleRepo.Create(ctx, raffle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create raffle: %v", err)
		return nil, errorx.Unknown
	}

	for i, reward := range req.Rewards {
		err := d.raffleRepo.CreateReward(ctx, &entity.RaffleReward{
			Base:        entity.Base{ID: uuid.NewString()},
			RaffleID:    raffle.ID,
			RewardIndex: i,
			Prize:       entity.Map(reward.Prize),
			InjectedWinner: sql.NullString{
				Valid:  reward.InjectedWinner != "",
				String: reward.InjectedWinner,
			},
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create raffle reward: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateRaffleResponse{ID: raffle.ID}, nil
}

func (d *raffleDomain) Get(
	ctx context.Context, req *model.GetRaffleRequest,
) (*model.GetRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	rewards, err := d.raffleRepo.GetRewardsByRaffleID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle rewards: %v", err)
		return nil, errorx.Unknown
	}

	clientRewards := []model.RaffleReward{}
	for i := range rewards {
		clientRewards = append(clientRewards, convertRaffleReward(&rewards[i]))
	}

	participants, err := d.raffleRepo.GetParticipantsByRaffleID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle participants: %v", err)
		return nil, errorx.Unknown
	}

	clientParticipants := []model.RaffleParticipant{}
	for _, p := range participants {
		clientParticipants = append(clientParticipants, model.RaffleParticipant{
			WalletAddress: p.WalletAddress,
			Tickets:       p.Amount,
		})
	}

	return &model.GetRaffleResponse{
		Raffle:       convertRaffle(raffle),
		Rewards:      clientRewards,
		Participants: clientParticipants,
	}, nil
}

func (d *raffleDomain) GetList(
	ctx context.Context, req *model.GetListRaffleRequest,
) (*model.GetListRaffleResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	raffles, err := d.raffleRepo.GetByProjectID(ctx, req.ProjectID, 0, apiCfg.MaxLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffles of project: %v", err)
		return nil, errorx.Unknown
	}

	clientRaffles := []model.Raffle{}
	for i := range raffles {
		clientRaffles = append(clientRaffles, convertRaffle(&raffles[i]))
	}

	return &model.GetListRaffleResponse{Raffles: clientRaffles}, nil
}

// BuyTickets spends staked points on raffle tickets. The spend is guarded
// twice inside one transaction: the raffle ticket cap and the per-staker
// balance are both checked by conditional updates, so a concurrent purchase
// can never oversell the raffle or overdraw the wallet.
func (d *raffleDomain) BuyTickets(
	ctx context.Context, req *model.BuyRaffleTicketsRequest,
) (*model.BuyRaffleTicketsResponse, error) {
	if req.NumberTickets <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Number of tickets must be a positive number")
	}

	if req.NumberTickets > maxTicketsPerPurchase {
		return nil, errorx.New(errorx.BadRequest,
			"Not allow buying more than %d tickets at once", maxTicketsPerPurchase)
	}

	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	if now.Before(raffle.StartTime) {
		return nil, errorx.New(errorx.Unavailable, "The raffle has not started yet")
	}

	if !raffle.EndTime.After(now) {
		return nil, errorx.New(errorx.Unavailable, "The raffle has ended")
	}

	walletAddress := xcontext.RequestWallet(ctx)
	cost := raffle.PointPerTicket * uint64(req.NumberTickets)
	if raffle.PointPerTicket != 0 && cost/uint64(req.NumberTickets) != raffle.PointPerTicket {
		return nil, errorx.New(errorx.BadRequest, "The total cost is out of range")
	}

	stakers, err := d.stakerRepo.GetByWalletAndProject(ctx, walletAddress, raffle.ProjectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stakers of wallet: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.raffleRepo.CheckAndUseTickets(ctx, raffle.ID, req.NumberTickets); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Out of tickets")
		}

		xcontext.Logger(ctx).Errorf("Cannot use raffle tickets: %v", err)
		return nil, errorx.Unknown
	}

	// Points are debited collection by collection until the cost is covered.
	remaining := cost
	for _, staker := range stakers {
		if remaining == 0 {
			break
		}

		take := math.MinUint64(staker.Points, remaining)
		if take == 0 {
			continue
		}

		err := d.stakerRepo.DecreasePoint(ctx, walletAddress, staker.CollectionID, take)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.InsufficientPoints, "Not enough points")
			}

			xcontext.Logger(ctx).Errorf("Cannot decrease points: %v", err)
			return nil, errorx.Unknown
		}

		remaining -= take
	}

	if remaining > 0 {
		return nil, errorx.New(errorx.InsufficientPoints, "Not enough points")
	}

	participant := &entity.RaffleParticipant{
		Base:          entity.Base{ID: uuid.NewString()},
		RaffleID:      raffle.ID,
		WalletAddress: walletAddress,
		Amount:        req.NumberTickets,
	}

	if err := d.raffleRepo.CreateParticipant(ctx, participant); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create raffle participant: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	if cost > 0 {
		d.leaderboard.ChangePoint(ctx, raffle.ProjectID, walletAddress, -int64(cost))
	}

	return &model.BuyRaffleTicketsResponse{TotalTickets: req.NumberTickets}, nil
}

// Draw settles every reward of an ended raffle. Winners are committed with a
// single-assignment guard, so two concurrent draws cannot hand out the same
// reward twice; the loser observes the conflict and reports the raffle as
// already drawn.
func (d *raffleDomain) Draw(
	ctx context.Context, req *model.DrawRaffleRequest,
) (*model.DrawRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if raffle.CreatedBy != xcontext.RequestWallet(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if time.Now().Before(raffle.EndTime) {
		return nil, errorx.New(errorx.NotEndedYet, "The raffle has not ended yet")
	}

	assigned, err := d.raffleRepo.CountAssignedRewards(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count assigned rewards: %v", err)
		return nil, errorx.Unknown
	}

	if assigned > 0 {
		return nil, errorx.New(errorx.AlreadyDrawn, "The raffle has already been drawn")
	}

	rewards, err := d.raffleRepo.GetRewardsByRaffleID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle rewards: %v", err)
		return nil, errorx.Unknown
	}

	participants, err := d.raffleRepo.GetParticipantsByRaffleID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle participants: %v", err)
		return nil, errorx.Unknown
	}

	if len(participants) == 0 {
		return nil, errorx.New(errorx.NoParticipants, "Cannot draw a raffle without participants")
	}

	result := raffledraw.Draw(rewards, participants, d.drawSource)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	rewardByID := map[string]*entity.RaffleReward{}
	for i := range rewards {
		rewardByID[rewards[i].ID] = &rewards[i]
	}

	resp := &model.DrawRaffleResponse{
		TotalParticipants: result.TotalParticipants,
		TotalTickets:      result.TotalTickets,
		Rewards:           []model.RaffleReward{},
	}

	for _, assignment := range result.Assignments {
		reward := rewardByID[assignment.RewardID]
		clientReward := convertRaffleReward(reward)

		if !assignment.Skipped() {
			err := d.raffleRepo.AssignRewardWinner(ctx, assignment.RewardID, assignment.WinAddress)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, errorx.New(errorx.AlreadyDrawn, "The raffle has already been drawn")
				}

				xcontext.Logger(ctx).Errorf("Cannot assign reward winner: %v", err)
				return nil, errorx.Unknown
			}

			clientReward.WinAddress = assignment.WinAddress
			clientReward.TicketsHeld = assignment.TicketsHeld
			clientReward.WinProbability = assignment.WinProbability
		}

		resp.Rewards = append(resp.Rewards, clientReward)
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	msg, err := json.Marshal(resp)
	if err == nil {
		err = d.publisher.Publish(ctx, TopicRaffleDrawn,
			&pubsub.Pack{Key: []byte(raffle.ID), Msg: msg})
	}
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish draw event: %v", err)
	}

	return resp, nil
}
