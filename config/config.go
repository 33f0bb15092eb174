package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Oracle    OracleConfigs
	Accrual   AccrualConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string

	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	DefaultLimit int
	MaxLimit     int
	AllowCORS    []string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

// OracleConfigs controls the holdings indexer the accrual engine reads from.
// Per-chain endpoints are loaded from a toml file at startup.
type OracleConfigs struct {
	ConfigPath     string
	RequestTimeout time.Duration
	CacheTTL       time.Duration

	Chains map[string]ChainOracleConfigs
}

type ChainOracleConfigs struct {
	Chain     string `toml:"chain"`
	URL       string `toml:"url"`
	PageLimit int    `toml:"page_limit"`
}

type AccrualConfigs struct {
	// MinCommitPoints is the precision floor of a claim. A claim computing
	// fewer points than this is returned to the caller but not persisted,
	// leaving the checkpoint in place so the remainder keeps accruing.
	MinCommitPoints uint64
}
