package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/stakepoint-labs/backend/config"
	"github.com/stakepoint-labs/backend/internal/client"
	"github.com/stakepoint-labs/backend/internal/domain"
	"github.com/stakepoint-labs/backend/internal/domain/leaderboard"
	"github.com/stakepoint-labs/backend/internal/domain/raffledraw"
	"github.com/stakepoint-labs/backend/internal/repository"
	"github.com/stakepoint-labs/backend/pkg/kafka"
	"github.com/stakepoint-labs/backend/pkg/logger"
	"github.com/stakepoint-labs/backend/pkg/pubsub"
	"github.com/stakepoint-labs/backend/pkg/router"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
	"github.com/stakepoint-labs/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	configs *config.Configs
	logger  logger.Logger

	db          *gorm.DB
	redisClient xredis.Client
	publisher   pubsub.Publisher

	projectRepo       repository.ProjectRepository
	collectionRepo    repository.CollectionRepository
	stakerRepo        repository.StakerRepository
	attributeRateRepo repository.AttributeRateRepository
	pointLedgerRepo   repository.PointLedgerRepository
	raffleRepo        repository.RaffleRepository

	holdingsCaller client.HoldingsCaller
	leaderboard    leaderboard.Leaderboard

	walletAuthDomain domain.WalletAuthDomain
	projectDomain    domain.ProjectDomain
	stakingDomain    domain.StakingDomain
	statisticDomain  domain.StatisticDomain
	raffleDomain     domain.RaffleDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadContext() {
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadDatabase() {
	logLevel := gormlogger.Error
	if s.configs.Database.LogLevel == "info" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("api", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.projectRepo = repository.NewProjectRepository()
	s.collectionRepo = repository.NewCollectionRepository()
	s.stakerRepo = repository.NewStakerRepository()
	s.attributeRateRepo = repository.NewAttributeRateRepository()
	s.pointLedgerRepo = repository.NewPointLedgerRepository()
	s.raffleRepo = repository.NewRaffleRepository()
}

func (s *srv) loadDomains() {
	s.holdingsCaller = client.NewHoldingsCaller(s.configs.Oracle.RequestTimeout)
	s.leaderboard = leaderboard.New(s.stakerRepo, s.redisClient)

	s.walletAuthDomain = domain.NewWalletAuthDomain()
	s.projectDomain = domain.NewProjectDomain(s.projectRepo, s.collectionRepo)
	s.stakingDomain = domain.NewStakingDomain(
		s.stakerRepo,
		s.collectionRepo,
		s.projectRepo,
		s.attributeRateRepo,
		s.pointLedgerRepo,
		s.holdingsCaller,
		s.leaderboard,
		s.publisher,
	)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard)
	s.raffleDomain = domain.NewRaffleDomain(
		s.raffleRepo,
		s.stakerRepo,
		s.projectRepo,
		s.leaderboard,
		s.publisher,
		raffledraw.NewCryptoSource(),
	)
}
