package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Port            string
	DatabaseDSN     string
	JWTSecret       string
	Env             string
	BcryptCost      int
	TokenTTLMinutes int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Load 从环境变量读取配置，存在 .env 文件时先加载它。
// 签名密钥和 bcrypt 代价在这里读取一次，之后作为构造参数下发，
// 不允许在别处再做环境查找。
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseDSN: getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=messagely port=5432 sslmode=disable TimeZone=UTC"),
		JWTSecret:   getenv("JWT_SECRET", defaultJWTSecret),
		Env:         getenv("APP_ENV", "dev"),
		BcryptCost:  getenvInt("BCRYPT_COST", 12),
		// 0 表示签发的 token 不带过期时间（与线上行为一致）。
		TokenTTLMinutes: getenvInt("TOKEN_TTL_MINUTES", 0),
	}
}

// Validate 在启动时检查配置，dev 之外禁止使用默认密钥。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: jwt secret is required")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == defaultJWTSecret {
		return errors.New("config: default jwt secret is not allowed outside dev")
	}
	return nil
}
