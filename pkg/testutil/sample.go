package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/repository"
)

// SampleProject creates a new project in database with many fields are
// randomized. The sample project can be overwritten by non-zero fields of
// init.
func SampleProject(ctx context.Context, init *entity.Project) (entity.Project, error) {
	projectRepo := repository.NewProjectRepository()

	sample := &entity.Project{
		Base:       entity.Base{ID: uuid.NewString()},
		Name:       uuid.NewString(),
		Handle:     uuid.NewString(),
		CreatedBy:  uuid.NewString(),
		WebsiteURL: "https://example.com",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := projectRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleCollection(ctx context.Context, init *entity.Collection) (entity.Collection, error) {
	collectionRepo := repository.NewCollectionRepository()

	sample := &entity.Collection{
		Base:            entity.Base{ID: uuid.NewString()},
		Chain:           "eth",
		ContractAddress: uuid.NewString(),
		Name:            uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if sample.ProjectID == "" {
		project, err := SampleProject(ctx, nil)
		if err != nil {
			return *sample, err
		}

		sample.ProjectID = project.ID
	}

	if err := collectionRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleStaker(ctx context.Context, init *entity.Staker) (entity.Staker, error) {
	stakerRepo := repository.NewStakerRepository()

	sample := &entity.Staker{
		WalletAddress: uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if sample.CollectionID == "" {
		collection, err := SampleCollection(ctx, nil)
		if err != nil {
			return *sample, err
		}

		sample.CollectionID = collection.ID
	}

	if err := stakerRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleRaffle(ctx context.Context, init *entity.Raffle) (entity.Raffle, error) {
	raffleRepo := repository.NewRaffleRepository()

	sample := &entity.Raffle{
		Base:           entity.Base{ID: uuid.NewString()},
		Title:          uuid.NewString(),
		StartTime:      time.Now().Add(-time.Hour),
		EndTime:        time.Now().Add(time.Hour),
		PointPerTicket: 10,
		CreatedBy:      uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if sample.ProjectID == "" {
		project, err := SampleProject(ctx, nil)
		if err != nil {
			return *sample, err
		}

		sample.ProjectID = project.ID
	}

	if err := raffleRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleRaffleReward(ctx context.Context, init *entity.RaffleReward) (entity.RaffleReward, error) {
	raffleRepo := repository.NewRaffleRepository()

	sample := &entity.RaffleReward{
		Base:  entity.Base{ID: uuid.NewString()},
		Prize: entity.Map{"type": "discord_role", "role": "winner"},
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if sample.RaffleID == "" {
		raffle, err := SampleRaffle(ctx, nil)
		if err != nil {
			return *sample, err
		}

		sample.RaffleID = raffle.ID
	}

	if err := raffleRepo.CreateReward(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !reflect.DeepEqual(overwriteField.Interface(), reflect.Zero(overwriteField.Type()).Interface()) {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
