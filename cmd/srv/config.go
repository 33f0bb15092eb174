package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stakepoint-labs/backend/config"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseInt(key, fallback string) int {
	value, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		log.Fatalf("invalid integer of %s: %v", key, err)
	}

	return value
}

func parseDuration(key, fallback string) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		log.Fatalf("invalid duration of %s: %v", key, err)
	}

	return value
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "mysql"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "stakepoint"),
			User:     getEnv("MYSQL_USER", "stakepoint"),
			Password: getEnv("MYSQL_PASSWORD", "stakepoint"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("API_HOST", "localhost"),
			Port:         getEnv("API_PORT", "8080"),
			Cert:         getEnv("API_SERVER_CERT", "cert"),
			Key:          getEnv("API_SERVER_KEY", "key"),
			DefaultLimit: parseInt("API_DEFAULT_LIMIT", "10"),
			MaxLimit:     parseInt("API_MAX_LIMIT", "50"),
			AllowCORS:    strings.Split(getEnv("API_ALLOW_CORS", "http://localhost:3000"), ","),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: parseDuration("ACCESS_TOKEN_DURATION", "5m"),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "localhost:9092"),
		},
		Oracle: config.OracleConfigs{
			ConfigPath:     getEnv("ORACLE_CONFIG_PATH", "./oracle.toml"),
			RequestTimeout: parseDuration("ORACLE_REQUEST_TIMEOUT", "10s"),
			CacheTTL:       parseDuration("ORACLE_CACHE_TTL", "1m"),
		},
		Accrual: config.AccrualConfigs{
			MinCommitPoints: uint64(parseInt("ACCRUAL_MIN_COMMIT_POINTS", "1")),
		},
	}

	s.loadOracleChains()
}

// loadOracleChains reads the per-chain holdings indexer endpoints from the
// toml file the oracle config points at.
func (s *srv) loadOracleChains() {
	var chainFile struct {
		Chains []config.ChainOracleConfigs `toml:"chains"`
	}

	s.configs.Oracle.Chains = map[string]config.ChainOracleConfigs{}
	if _, err := os.Stat(s.configs.Oracle.ConfigPath); err != nil {
		log.Printf("no oracle config file at %s, accrual claims will be unavailable", s.configs.Oracle.ConfigPath)
		return
	}

	if _, err := toml.DecodeFile(s.configs.Oracle.ConfigPath, &chainFile); err != nil {
		log.Fatalf("cannot decode oracle config file: %v", err)
	}

	for _, chain := range chainFile.Chains {
		s.configs.Oracle.Chains[chain.Chain] = chain
	}
}
