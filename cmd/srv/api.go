package main

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/stakepoint-labs/backend/internal/middleware"
	"github.com/stakepoint-labs/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadContext()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.configs.ApiServer.AllowCORS,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: c.Handler(s.router.Handler()),
	}

	s.logger.Infof("Starting server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	s.logger.Infof("Server stopped")
	return s.publisher.Stop(s.ctx)
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithWallet())

	// Public API
	publicRouter := s.router.Branch()
	{
		router.GET(publicRouter, "/wallet/login", s.walletAuthDomain.Login)
		router.POST(publicRouter, "/wallet/verify", s.walletAuthDomain.Verify)

		router.GET(publicRouter, "/getProject", s.projectDomain.Get)
		router.GET(publicRouter, "/getListProject", s.projectDomain.GetList)

		router.GET(publicRouter, "/getAttributeRates", s.stakingDomain.GetAttributeRates)

		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(publicRouter, "/getRank", s.statisticDomain.GetRank)

		router.GET(publicRouter, "/getRaffle", s.raffleDomain.Get)
		router.GET(publicRouter, "/getListRaffle", s.raffleDomain.GetList)
	}

	// These following APIs need an authenticated wallet.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// Project API
		router.POST(authRouter, "/createProject", s.projectDomain.Create)
		router.POST(authRouter, "/createCollection", s.projectDomain.CreateCollection)
		router.POST(authRouter, "/createAttributeRate", s.stakingDomain.CreateAttributeRate)
		router.POST(authRouter, "/deleteAttributeRate", s.stakingDomain.DeleteAttributeRate)

		// Staking API
		router.POST(authRouter, "/register", s.stakingDomain.Register)
		router.POST(authRouter, "/claim", s.stakingDomain.Claim)
		router.GET(authRouter, "/getClaimable", s.stakingDomain.GetClaimable)
		router.GET(authRouter, "/getPointLedger", s.stakingDomain.GetPointLedger)

		// Raffle API
		router.POST(authRouter, "/createRaffle", s.raffleDomain.Create)
		router.POST(authRouter, "/buyRaffleTickets", s.raffleDomain.BuyTickets)
		router.POST(authRouter, "/drawRaffle", s.raffleDomain.Draw)
	}
}
