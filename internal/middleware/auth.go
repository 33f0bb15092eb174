package middleware

import (
	"context"
	"strings"

	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/router"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type walletClaims struct {
	WalletAddress string `json:"wallet_address"`
}

// WithWallet resolves the bearer token of the request into the caller's
// wallet address. Requests without a token pass through anonymously;
// handlers that need a caller use Authenticate behind this.
func WithWallet() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := bearerToken(ctx)
		if token == "" {
			return nil, nil
		}

		var claims walletClaims
		if err := xcontext.TokenEngine(ctx).Verify(token, &claims); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestWallet(ctx, claims.WalletAddress), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestWallet(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

func bearerToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err == nil {
		return cookie.Value
	}

	return ""
}
