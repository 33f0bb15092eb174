package main

import (
	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadContext()
	s.loadLogger()
	s.loadDatabase()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	s.logger.Infof("Database migration completed")
	return nil
}
