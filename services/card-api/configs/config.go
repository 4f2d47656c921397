package configs

import (
	"time"

	"github.com/dtb-bank/core-banking/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port          string        `mapstructure:"PORT" validate:"required"`
	PrimaryDbAddr string        `mapstructure:"PRIMARY_DB_ADDR" validate:"required"`
	ReplicaDbAddr string        `mapstructure:"REPLICA_DB_ADDR"`
	MaxDbCons     int32         `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons     int32         `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1"`
	AccountApiUrl string        `mapstructure:"ACCOUNT_API_URL" validate:"required,url"`
	AesKey        string        `mapstructure:"AES_KEY" validate:"required"`
	AesIv         string        `mapstructure:"AES_IV" validate:"required,len=16"`
	KafkaBrokers  string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic    string        `mapstructure:"KAFKA_TOPIC" validate:"required"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL" validate:"min=0"`
	RateLimit     int           `mapstructure:"RATE_LIMIT" validate:"min=0"`
	RateBurst     int           `mapstructure:"RATE_BURST" validate:"min=0"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8083")
	viper.SetDefault("MAX_DB_CONNECTIONS", "10")
	viper.SetDefault("MIN_DB_CONNECTIONS", "2")
	viper.SetDefault("KAFKA_TOPIC", "entity-lifecycle")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT", "0")
	viper.SetDefault("RATE_BURST", "100")

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running in test mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/card-api/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	// Validate after unmarshal. Key length (16/24/32) is enforced by the
	// field codec at startup.
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
