package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	// DatabaseURL is a postgres DSN; when empty the service falls back to a
	// local sqlite file.
	DatabaseURL string
	SqlitePath  string
	RedisAddr   string
	HTTPPort    string
	// DeclinedRetentionDays controls the retention sweep of declined
	// connection requests; zero disables the sweep.
	DeclinedRetentionDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using system environment")
	}

	return &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SqlitePath:            getenv("SQLITE_PATH", "circle.db"),
		RedisAddr:             getenv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:              getenv("PORT", "4040"),
		DeclinedRetentionDays: getenvInt("DECLINED_RETENTION_DAYS", 0),
	}
}

// GetDb opens the configured database. Errors are translated by gorm so the
// store sees gorm.ErrDuplicatedKey on unique violations from either driver.
func GetDb(cnf *Config) *gorm.DB {
	gormConfig := &gorm.Config{TranslateError: true}

	if cnf.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cnf.DatabaseURL), gormConfig)
		if err != nil {
			logrus.Fatalf("failed to connect to postgres: %v", err)
		}
		return db
	}

	db, err := gorm.Open(sqlite.Open(cnf.SqlitePath), gormConfig)
	if err != nil {
		logrus.Fatalf("failed to open sqlite database %s: %v", cnf.SqlitePath, err)
	}
	return db
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid value %q for %s, using %d", v, key, fallback)
		return fallback
	}
	return n
}
