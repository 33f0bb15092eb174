package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/router"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if err := router.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", info, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
