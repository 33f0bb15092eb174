package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type resultKey struct{}

type result struct {
	resp any
	err  error
}

// Error returns the error the handler or a middleware produced for this
// request, if any. It is only meaningful inside closers.
func Error(ctx context.Context) error {
	if r, ok := ctx.Value(resultKey{}).(*result); ok {
		return r.err
	}

	return nil
}

// Response returns the handler response of this request. It is only
// meaningful inside After middlewares and closers.
func Response(ctx context.Context) any {
	if r, ok := ctx.Value(resultKey{}).(*result); ok {
		return r.resp
	}

	return nil
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithTokenEngine(ctx, router.engine)
		ctx = xcontext.WithSnowFlake(ctx, router.snowflake)
		ctx = xcontext.WithHTTPRequest(ctx, r)

		res := &result{}
		ctx = context.WithValue(ctx, resultKey{}, res)

		defer func() {
			writeResult(ctx, w, res)
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		if r.Method != method {
			res.err = errorx.New(errorx.NotImplemented, "Unsupported method %s", r.Method)
			return
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(r, &req)
		case http.MethodPost:
			err = json.NewDecoder(r.Body).Decode(&req)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			res.err = errorx.New(errorx.BadRequest, "Cannot bind the request")
			return
		}

		for _, middleware := range router.befores {
			middlewareCtx, err := middleware(ctx)
			if err != nil {
				res.err = err
				return
			}

			if middlewareCtx != nil {
				ctx = middlewareCtx
			}
		}

		res.resp, res.err = handler(ctx, &req)
		if res.err != nil {
			return
		}

		for _, middleware := range router.afters {
			middlewareCtx, err := middleware(ctx)
			if err != nil {
				res.err = err
				return
			}

			if middlewareCtx != nil {
				ctx = middlewareCtx
			}
		}
	}
}
