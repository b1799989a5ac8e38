package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime knob for the service. It is constructed once in
// main and handed to whatever needs it — there is no package-level state.
type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
	DBPath  string `mapstructure:"db_path"`

	JWTSecret string `mapstructure:"jwt_secret"`

	// Tax rate in basis points: 800 = 8%.
	TaxRateBasisPoints int64 `mapstructure:"tax_rate_basis_points"`

	RazorpayBaseURL   string        `mapstructure:"razorpay_base_url"`
	RazorpayKeyID     string        `mapstructure:"razorpay_key_id"`
	RazorpayKeySecret string        `mapstructure:"razorpay_key_secret"`
	RazorpayTimeout   time.Duration `mapstructure:"razorpay_timeout"`

	SeedData bool `mapstructure:"seed_data"`
}

// Load initializes and reads the configuration using Viper. Environment
// variables override file values; an absent config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("db_path", "food_ordering.db")
	v.SetDefault("jwt_secret", "food_ordering_super_secret_2024")
	v.SetDefault("tax_rate_basis_points", 800)
	v.SetDefault("razorpay_base_url", "https://api.razorpay.com")
	v.SetDefault("razorpay_key_id", "rzp_test_key")
	v.SetDefault("razorpay_key_secret", "rzp_test_secret")
	v.SetDefault("razorpay_timeout", 5*time.Second)
	v.SetDefault("seed_data", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
