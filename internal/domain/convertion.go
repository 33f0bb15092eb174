package domain

import (
	"time"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
)

func convertProject(project *entity.Project) model.Project {
	if project == nil {
		return model.Project{}
	}

	return model.Project{
		ID:           project.ID,
		CreatedAt:    project.CreatedAt.Format(time.RFC3339Nano),
		Name:         project.Name,
		Handle:       project.Handle,
		CreatedBy:    project.CreatedBy,
		Introduction: string(project.Introduction),
		WebsiteURL:   project.WebsiteURL,
	}
}

func convertCollection(collection *entity.Collection) model.Collection {
	if collection == nil {
		return model.Collection{}
	}

	return model.Collection{
		ID:              collection.ID,
		ProjectID:       collection.ProjectID,
		Chain:           collection.Chain,
		ContractAddress: collection.ContractAddress,
		Name:            collection.Name,
		ImageUrl:        collection.ImageUrl,
	}
}

func convertStaker(staker *entity.Staker) model.Staker {
	if staker == nil {
		return model.Staker{}
	}

	lastClaimedAt := ""
	if staker.LastClaimedAt.Valid {
		lastClaimedAt = staker.LastClaimedAt.Time.Format(time.RFC3339Nano)
	}

	return model.Staker{
		WalletAddress: staker.WalletAddress,
		CollectionID:  staker.CollectionID,
		Points:        staker.Points,
		HeldNfts:      staker.HeldNfts,
		LastClaimedAt: lastClaimedAt,
	}
}

func convertAttributeRate(rate *entity.AttributeRate) model.AttributeRate {
	if rate == nil {
		return model.AttributeRate{}
	}

	return model.AttributeRate{
		ID:         rate.ID,
		TraitType:  rate.TraitType.String,
		TraitValue: rate.TraitValue.String,
		Unit:       string(rate.Unit),
		Rate:       rate.Rate,
	}
}

func convertRaffle(raffle *entity.Raffle) model.Raffle {
	if raffle == nil {
		return model.Raffle{}
	}

	return model.Raffle{
		ID:             raffle.ID,
		ProjectID:      raffle.ProjectID,
		Title:          raffle.Title,
		StartTime:      raffle.StartTime,
		EndTime:        raffle.EndTime,
		PointPerTicket: raffle.PointPerTicket,
		MaxTickets:     raffle.MaxTickets,
		UsedTickets:    raffle.UsedTickets,
		CreatedBy:      raffle.CreatedBy,
	}
}

func convertRaffleReward(reward *entity.RaffleReward) model.RaffleReward {
	if reward == nil {
		return model.RaffleReward{}
	}

	return model.RaffleReward{
		ID:          reward.ID,
		RewardIndex: reward.RewardIndex,
		Prize:       reward.Prize,
		WinAddress:  reward.WinAddress.String,
	}
}
