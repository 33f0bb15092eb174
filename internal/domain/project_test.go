package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/testutil"
)

func newProjectDomain() *projectDomain {
	return NewProjectDomain(
		repository.NewProjectRepository(),
		repository.NewCollectionRepository(),
	)
}

func Test_projectDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	d := newProjectDomain()

	authorizedCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.Create(authorizedCtx, &model.CreateProjectRequest{
		Name:       "Bored Penguins",
		Handle:     "bored_penguins",
		WebsiteURL: "https://boredpenguins.example",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "bored_penguins", resp.Handle)

	got, err := d.Get(ctx, &model.GetProjectRequest{Handle: "bored_penguins"})
	require.NoError(t, err)
	require.Equal(t, testWallet1, got.Project.CreatedBy)
	require.Empty(t, got.Collections)

	// The handle must be unique.
	_, err = d.Create(authorizedCtx, &model.CreateProjectRequest{
		Name:   "Another Project",
		Handle: "bored_penguins",
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	_, err = d.Create(authorizedCtx, &model.CreateProjectRequest{Name: "No Handle"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_projectDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	for i := 0; i < 3; i++ {
		_, err := testutil.SampleProject(ctx, nil)
		require.NoError(t, err)
	}

	d := newProjectDomain()

	resp, err := d.GetList(ctx, &model.GetListProjectRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 3)

	// A zero limit falls back to the configured default of one row.
	resp, err = d.GetList(ctx, &model.GetListProjectRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)

	_, err = d.GetList(ctx, &model.GetListProjectRequest{Limit: 51})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_projectDomain_CreateCollection(t *testing.T) {
	ctx := testutil.MockContext()
	project, err := testutil.SampleProject(ctx, &entity.Project{CreatedBy: testWallet1})
	require.NoError(t, err)

	d := newProjectDomain()

	contract := "0x00000000000000000000000000000000000000aa"
	req := &model.CreateCollectionRequest{
		ProjectID:       project.ID,
		Chain:           "eth",
		ContractAddress: contract,
		Name:            "Bored Penguins Gen1",
	}

	strangerCtx := testutil.MockContextWithWallet(ctx, testWallet2)
	_, err = d.CreateCollection(strangerCtx, req)
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	ownerCtx := testutil.MockContextWithWallet(ctx, testWallet1)
	resp, err := d.CreateCollection(ownerCtx, req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	// The same contract on the same chain cannot be registered twice.
	_, err = d.CreateCollection(ownerCtx, req)
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	_, err = d.CreateCollection(ownerCtx, &model.CreateCollectionRequest{
		ProjectID:       project.ID,
		Chain:           "eth",
		ContractAddress: "not-an-address",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.CreateCollection(ownerCtx, &model.CreateCollectionRequest{
		ProjectID:       "unknown-project",
		Chain:           "eth",
		ContractAddress: contract,
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}
