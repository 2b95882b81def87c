package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Solana    SolanaConfig
	Pools     PoolsConfig
	Telegram  TelegramConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

type SolanaConfig struct {
	RPCURL    string
	WSURL     string
	ProgramID string
	// KeypairPath is the signer's keygen file. Empty means read-only mode:
	// every write fails with a signer-unavailable error.
	KeypairPath string
	// ConfirmTimeout bounds the wait for transaction finality. Expiry is an
	// unknown outcome, not a failure.
	ConfirmTimeout time.Duration
}

type PoolsConfig struct {
	Path string
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

type RateLimitConfig struct {
	RequestsPerSecond int
	BurstSize         int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 10)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./memepool.db"),
		},
		Solana: SolanaConfig{
			RPCURL:         getEnv("RPC_URL", "https://api.devnet.solana.com"),
			WSURL:          getEnv("WS_URL", "wss://api.devnet.solana.com"),
			ProgramID:      getEnv("PROGRAM_ID", ""),
			KeypairPath:    getEnv("KEYPAIR_PATH", ""),
			ConfirmTimeout: time.Duration(getEnvAsInt("CONFIRM_TIMEOUT", 90)) * time.Second,
		},
		Pools: PoolsConfig{
			Path: getEnv("POOLS_CONFIG", "./pools.json"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   int64(getEnvAsInt("TELEGRAM_CHAT_ID", 0)),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 10),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}
