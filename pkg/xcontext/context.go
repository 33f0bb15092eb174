package xcontext

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/stakepoint-labs/backend/config"
	"github.com/stakepoint-labs/backend/pkg/authenticator"
	"github.com/stakepoint-labs/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	txKey            struct{}
	requestWalletKey struct{}
	tokenEngineKey   struct{}
	snowflakeKey     struct{}
	httpRequestKey   struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.ERROR)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction if one is active on this context,
// otherwise the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !tx.done {
		return tx.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a database transaction and attaches it to the
// returned context. Until the transaction is committed or rolled back, DB()
// returns the transaction instead of the root handle.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the active transaction if any. A following
// WithRollbackDBTransaction is a no-op, so it is safe to defer the rollback
// right after beginning the transaction.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}

	return ctx
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}

	return ctx
}

// WithRequestWallet records the authenticated wallet address of this request.
func WithRequestWallet(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, requestWalletKey{}, address)
}

func RequestWallet(ctx context.Context) string {
	address, ok := ctx.Value(requestWalletKey{}).(string)
	if !ok {
		return ""
	}

	return address
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
	if !ok {
		return nil
	}

	return engine
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node, ok := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	if !ok {
		node, err := snowflake.NewNode(0)
		if err != nil {
			panic(err)
		}

		return node
	}

	return node
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return r
}
