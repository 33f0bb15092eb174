package testutil

import (
	"context"

	"github.com/stakepoint-labs/backend/internal/client"
	"github.com/stakepoint-labs/backend/pkg/errorx"
)

type MockHoldingsCaller struct {
	GetHoldingsFunc func(ctx context.Context, chain, walletAddress, contractAddress string) ([]client.HeldToken, error)
}

func (m *MockHoldingsCaller) GetHoldings(
	ctx context.Context, chain, walletAddress, contractAddress string,
) ([]client.HeldToken, error) {
	if m.GetHoldingsFunc != nil {
		return m.GetHoldingsFunc(ctx, chain, walletAddress, contractAddress)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}
