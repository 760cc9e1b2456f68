package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	MetricsAddr string

	InputPath string
	OutputDir string

	BalanceParts int
	BalanceSeed  *uint64 // nil: seed from the clock

	DictAff      string
	DictDic      string
	SpellWorkers int

	SnapshotSinks []string
	MySQLDSN      string
	PostgresDSN   string

	RedisAddr string // empty disables the suggestion cache
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory, when present, is loaded first without overriding real env vars.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		InputPath:     env("INPUT_PATH", "data/reviews.csv"),
		OutputDir:     env("OUTPUT_DIR", "out"),
		BalanceParts:  atoi("BALANCE_PARTS", 2),
		DictAff:       env("DICT_AFF", "dict/en_US.aff"),
		DictDic:       env("DICT_DIC", "dict/en_US.dic"),
		SpellWorkers:  atoi("SPELL_WORKERS", 8),
		SnapshotSinks: list("SNAPSHOT_SINKS", "csv"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		PostgresDSN:   env("POSTGRES_DSN", "host=localhost port=5432 user=prep password=prep dbname=reviews sslmode=disable"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("SUGGEST_CACHE_TTL_SECONDS", 7*24*3600)) * time.Second,
	}
	if v := os.Getenv("BALANCE_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.BalanceSeed = &n
		} else {
			log.Warn().Str("value", v).Msg("BALANCE_SEED is not an unsigned integer, ignoring")
		}
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func list(k, def string) []string {
	var out []string
	for _, p := range strings.Split(env(k, def), ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
