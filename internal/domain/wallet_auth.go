package domain

import (
	"bytes"
	"context"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stakepoint-labs/backend/internal/model"
	"github.com/stakepoint-labs/backend/pkg/crypto"
	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type WalletAuthDomain interface {
	Login(context.Context, *model.WalletLoginRequest) (*model.WalletLoginResponse, error)
	Verify(context.Context, *model.WalletVerifyRequest) (*model.WalletVerifyResponse, error)
}

type walletAuthDomain struct{}

func NewWalletAuthDomain() *walletAuthDomain {
	return &walletAuthDomain{}
}

type nonceChallenge struct {
	Address string `json:"address"`
	Nonce   string `json:"nonce"`
}

func (d *walletAuthDomain) Login(
	ctx context.Context, req *model.WalletLoginRequest,
) (*model.WalletLoginResponse, error) {
	if !common.IsHexAddress(req.Address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address")
	}

	nonce, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate random string: %v", err)
		return nil, errorx.Unknown
	}

	nonceToken, err := xcontext.TokenEngine(ctx).Generate(
		5*time.Minute, nonceChallenge{Address: req.Address, Nonce: nonce})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate nonce token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WalletLoginResponse{
		Address:    req.Address,
		Nonce:      nonce,
		NonceToken: nonceToken,
	}, nil
}

func (d *walletAuthDomain) Verify(
	ctx context.Context, req *model.WalletVerifyRequest,
) (*model.WalletVerifyResponse, error) {
	var challenge nonceChallenge
	if err := xcontext.TokenEngine(ctx).Verify(req.NonceToken, &challenge); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify nonce token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired nonce")
	}

	hash := accounts.TextHash([]byte(challenge.Nonce))
	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode signature: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid signature")
	}

	if len(signature) <= ethcrypto.RecoveryIDOffset {
		return nil, errorx.New(errorx.BadRequest, "Invalid signature")
	}

	if signature[ethcrypto.RecoveryIDOffset] == 27 || signature[ethcrypto.RecoveryIDOffset] == 28 {
		signature[ethcrypto.RecoveryIDOffset] -= 27 // Transform yellow paper V from 27/28 to 0/1
	}

	recovered, err := ethcrypto.SigToPub(hash, signature)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot recover signature to address: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid signature")
	}

	recoveredAddr := ethcrypto.PubkeyToAddress(*recovered)
	if !bytes.Equal(recoveredAddr.Bytes(), common.HexToAddress(challenge.Address).Bytes()) {
		return nil, errorx.New(errorx.BadRequest, "Mismatched address")
	}

	cfg := xcontext.Configs(ctx)
	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		cfg.Auth.AccessToken.Expiration,
		model.AccessToken{WalletAddress: recoveredAddr.Hex()},
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WalletVerifyResponse{AccessToken: accessToken}, nil
}
