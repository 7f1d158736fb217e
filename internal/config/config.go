package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	Reward       RewardConfig
	Referral     ReferralConfig
	Subscription SubscriptionConfig
	Transfer     TransferConfig
	LogLevel     string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// RewardConfig controls video watch settlement.
type RewardConfig struct {
	MinimumBalance      float64
	Policy              string // "daily" or "milestone"
	CompletionMilestone int
}

// ReferralConfig holds the per-level bonus rates, level 1 first.
type ReferralConfig struct {
	Rates []float64
}

// SubscriptionConfig holds subscription activation settings
type SubscriptionConfig struct {
	MinimumPoints float64
	CodeLength    int
}

// TransferConfig holds point transfer settings
type TransferConfig struct {
	StuckAfter time.Duration
}

const (
	RewardPolicyDaily     = "daily"
	RewardPolicyMilestone = "milestone"

	maxReferralDepth = 3
)

// LoadConfig loads configuration from an optional config.yaml under path and the environment.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(path + "/config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"*"})
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "pointhub")
	v.SetDefault("MongoDB.Timeout", 10*time.Second)
	v.SetDefault("JWT.Secret", "") // set through JWT_SECRET
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Reward.MinimumBalance", 12)
	v.SetDefault("Reward.Policy", RewardPolicyDaily)
	v.SetDefault("Reward.CompletionMilestone", 100)
	v.SetDefault("Referral.Rates", []float64{0.10, 0.05, 0.03})
	v.SetDefault("Subscription.MinimumPoints", 12)
	v.SetDefault("Subscription.CodeLength", 6)
	v.SetDefault("Transfer.StuckAfter", 5*time.Minute)
	v.SetDefault("LogLevel", "info")
}

func (c *Config) validate() error {
	switch c.Reward.Policy {
	case RewardPolicyDaily, RewardPolicyMilestone:
	default:
		return errors.New("Reward.Policy must be \"daily\" or \"milestone\"")
	}
	if len(c.Referral.Rates) > maxReferralDepth {
		return errors.New("Referral.Rates supports at most 3 levels")
	}
	for _, r := range c.Referral.Rates {
		if r < 0 || r > 1 {
			return errors.New("Referral.Rates must be between 0 and 1")
		}
	}
	if c.Subscription.CodeLength <= 0 {
		return errors.New("Subscription.CodeLength must be positive")
	}
	return nil
}
