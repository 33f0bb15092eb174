package router

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/stakepoint-labs/backend/config"
	"github.com/stakepoint-labs/backend/pkg/authenticator"
	"github.com/stakepoint-labs/backend/pkg/logger"
	"gorm.io/gorm"
)

// HandlerFunc is the shape of all domain operations. Request is bound from
// the query string (GET) or the json body (POST) before the handler runs.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is determined, for logging and other
// bookkeeping. It cannot change the response.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	cfg       config.Configs
	logger    logger.Logger
	db        *gorm.DB
	engine    authenticator.TokenEngine
	snowflake *snowflake.Node

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	return &Router{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		logger:    logger,
		db:        db,
		engine:    authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		snowflake: node,
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain, copied from the current one.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}
