package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// 公演一覧の取得元
const (
	SourceHTTP      = "http"
	SourceSupabase  = "supabase"
	SourcePostgres  = "postgres"
	SourceFirestore = "firestore"
)

// Config 環境変数から読み込むアプリケーション設定
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	GinMode      string `env:"GIN_MODE" envDefault:"release"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	PprofEnabled bool   `env:"PPROF_ENABLED" envDefault:"false"`

	PerformanceSource     string        `env:"PERFORMANCE_SOURCE" envDefault:"http"`
	PerformanceAPIBaseURL string        `env:"PERFORMANCE_API_BASE_URL" envDefault:"http://localhost:3000/api"`
	MapDataPath           string        `env:"MAP_DATA_PATH" envDefault:"data/china.json"`
	MapDataURL            string        `env:"MAP_DATA_URL"`
	HTTPTimeout           time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	Timezone              string        `env:"TIMEZONE" envDefault:"Asia/Shanghai"`

	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseAnonKey    string `env:"SUPABASE_ANON_KEY"`
	SupabaseDBPassword string `env:"SUPABASE_DB_PASSWORD"`
	DatabaseURL        string `env:"DATABASE_URL"`

	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID"`
	GoogleCredentials  string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// Load .env を読み込んでから環境変数を解析する
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.Info("📄 .envファイルが見つかりません。システムの環境変数を使用します")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.PerformanceSource = strings.ToLower(strings.TrimSpace(cfg.PerformanceSource))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 取得元ごとの必須項目を確認する
func (c *Config) Validate() error {
	var errs []error

	switch c.PerformanceSource {
	case SourceHTTP:
		if c.PerformanceAPIBaseURL == "" {
			errs = append(errs, errors.New("PERFORMANCE_API_BASE_URL環境変数が設定されていません"))
		}
	case SourceSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URLとSUPABASE_ANON_KEYが必要です"))
		}
	case SourcePostgres:
		if c.DatabaseURL == "" && (c.SupabaseURL == "" || c.SupabaseDBPassword == "") {
			errs = append(errs, errors.New("DATABASE_URL、またはSUPABASE_URLとSUPABASE_DB_PASSWORDが必要です"))
		}
	case SourceFirestore:
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID環境変数が設定されていません"))
		}
	default:
		errs = append(errs, fmt.Errorf("PERFORMANCE_SOURCEが不正です: %q", c.PerformanceSource))
	}

	if c.MapDataPath == "" && c.MapDataURL == "" {
		errs = append(errs, errors.New("MAP_DATA_PATHかMAP_DATA_URLのどちらかが必要です"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUTは正の値にしてください"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONEが不正です: %q: %w", c.Timezone, err))
	}

	return errors.Join(errs...)
}

// Location 暦日の判定に使うタイムゾーン。Validate 済みの前提で、読み込めなければUTC+8固定
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// LogrusLevel LOG_LEVEL を解釈する。不正な値は info
func (c *Config) LogrusLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
