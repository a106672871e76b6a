package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config carries every tunable of the engine. Clients and services receive it
// explicitly; there is no ambient global state.
type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	AWS       AWS       `mapstructure:",squash"`
	AppLovin  AppLovin  `mapstructure:",squash"`
	Allocator Allocator `mapstructure:",squash"`
	FloorSync FloorSync `mapstructure:",squash"`
	Publish   Publish   `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type AWS struct {
	Region          string `mapstructure:"aws_region"`
	ArtifactsBucket string `mapstructure:"aws_artifacts_bucket"`
}

// AppLovin configures the ad network management API client. The API key is
// caller-supplied, per customer.
type AppLovin struct {
	BaseURL        string        `mapstructure:"applovin_base_url"`
	APIKey         string        `mapstructure:"applovin_api_key"`
	RequestTimeout time.Duration `mapstructure:"applovin_request_timeout"`
}

// Allocator selects the registration transport. Transport is "http" (direct
// PUT to URI) or "lambda" (asynchronous invocation of FunctionName); both are
// functionally equivalent.
type Allocator struct {
	Transport    string `mapstructure:"allocator_transport"`
	URI          string `mapstructure:"allocator_uri"`
	FunctionName string `mapstructure:"allocator_lambda_function"`
}

const (
	AllocatorTransportHTTP   = "http"
	AllocatorTransportLambda = "lambda"
)

// Grouping strategies for compiled country groups.
const (
	GroupingTier  = "tier"
	GroupingValue = "value"
)

type FloorSync struct {
	CustomerID           int    `mapstructure:"floor_sync_customer_id"`
	AppID                int    `mapstructure:"floor_sync_app_id"`
	PackageName          string `mapstructure:"floor_sync_package_name"`
	Platform             string `mapstructure:"floor_sync_platform"`
	AdType               string `mapstructure:"floor_sync_ad_type"`
	TargetPercentile     string `mapstructure:"floor_sync_target_percentile"`
	Grouping             string `mapstructure:"floor_sync_grouping"`
	MaxAttempts          int    `mapstructure:"floor_sync_max_attempts"`
	MaxConcurrentUpdates int    `mapstructure:"floor_sync_max_concurrent_updates"`
	CronSchedule         string `mapstructure:"floor_sync_cron"`
	Enabled              bool   `mapstructure:"floor_sync_enabled"`
}

type Publish struct {
	ArtifactPrefix string `mapstructure:"publish_artifact_prefix"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("AWS_REGION", "eu-west-1")
	viper.SetDefault("AWS_ARTIFACTS_BUCKET", "com.metica.prod-eu.dplat.artifacts")

	viper.SetDefault("APPLOVIN_BASE_URL", "https://o.applovin.com/mediation/v1")
	viper.SetDefault("APPLOVIN_REQUEST_TIMEOUT", "30s")

	viper.SetDefault("ALLOCATOR_TRANSPORT", AllocatorTransportHTTP)
	viper.SetDefault("ALLOCATOR_URI", "")
	viper.SetDefault("ALLOCATOR_LAMBDA_FUNCTION", "")

	viper.SetDefault("FLOOR_SYNC_PLATFORM", "android")
	viper.SetDefault("FLOOR_SYNC_AD_TYPE", "reward")
	viper.SetDefault("FLOOR_SYNC_TARGET_PERCENTILE", "p75")
	viper.SetDefault("FLOOR_SYNC_GROUPING", GroupingTier)
	viper.SetDefault("FLOOR_SYNC_MAX_ATTEMPTS", 3)
	viper.SetDefault("FLOOR_SYNC_MAX_CONCURRENT_UPDATES", 3)
	viper.SetDefault("FLOOR_SYNC_CRON", "0 7 * * *")
	viper.SetDefault("FLOOR_SYNC_ENABLED", false)

	viper.SetDefault("PUBLISH_ARTIFACT_PREFIX", "sagemaker_inference")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("no .env file readable by viper, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks cross-field constraints once, at the boundary. Optional
// surfaces (allocator) are only validated when actually selected.
func (c *Config) Validate() error {
	switch c.Allocator.Transport {
	case AllocatorTransportHTTP, AllocatorTransportLambda:
	default:
		return fmt.Errorf("invalid allocator transport %q: must be %q or %q",
			c.Allocator.Transport, AllocatorTransportHTTP, AllocatorTransportLambda)
	}

	switch c.FloorSync.Grouping {
	case GroupingTier, GroupingValue:
	default:
		return fmt.Errorf("invalid grouping %q: must be %q or %q",
			c.FloorSync.Grouping, GroupingTier, GroupingValue)
	}

	if c.FloorSync.MaxAttempts < 1 {
		c.FloorSync.MaxAttempts = 1
	}
	if c.FloorSync.MaxConcurrentUpdates < 1 {
		c.FloorSync.MaxConcurrentUpdates = 1
	}

	return nil
}

// RequireAllocator verifies the selected transport is fully configured; only
// called when allocator registration was requested.
func (c *Config) RequireAllocator() error {
	switch c.Allocator.Transport {
	case AllocatorTransportHTTP:
		if c.Allocator.URI == "" {
			return fmt.Errorf("allocator transport is http but ALLOCATOR_URI is empty")
		}
	case AllocatorTransportLambda:
		if c.Allocator.FunctionName == "" {
			return fmt.Errorf("allocator transport is lambda but ALLOCATOR_LAMBDA_FUNCTION is empty")
		}
	}
	return nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not resolve working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("loaded environment from ", location)
			return
		}
	}
}
