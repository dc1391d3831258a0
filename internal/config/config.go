package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	DatabaseURL        string   `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32    `mapstructure:"DB_MIN_CONNS"`
	PMSBaseURL         string   `mapstructure:"PMS_BASE_URL"`
	PMSAppID           string   `mapstructure:"PMS_APP_ID"`
	PMSAppKey          string   `mapstructure:"PMS_APP_KEY"`
	PMSOfficeID        string   `mapstructure:"PMS_OFFICE_ID"`
	PMSPracticeID      string   `mapstructure:"PMS_PRACTICE_ID"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	CORSWildcardDomain string   `mapstructure:"CORS_WILDCARD_DOMAIN"`
	MonthlyRevenueGoal float64  `mapstructure:"MONTHLY_REVENUE_GOAL"`
	AssistantBaseURL   string   `mapstructure:"ASSISTANT_BASE_URL"`
	AssistantAPIKey    string   `mapstructure:"ASSISTANT_API_KEY"`
	AssistantModel     string   `mapstructure:"ASSISTANT_MODEL"`
	RequestTimeoutSec  int      `mapstructure:"REQUEST_TIMEOUT_SEC"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("PMS_BASE_URL", "https://api.sikkasoft.com/v4")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MONTHLY_REVENUE_GOAL", 50000)
	v.SetDefault("ASSISTANT_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("ASSISTANT_MODEL", "gpt-4o-mini")
	v.SetDefault("REQUEST_TIMEOUT_SEC", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("PMS_BASE_URL")
	v.BindEnv("PMS_APP_ID")
	v.BindEnv("PMS_APP_KEY")
	v.BindEnv("PMS_OFFICE_ID")
	v.BindEnv("PMS_PRACTICE_ID")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("CORS_WILDCARD_DOMAIN")
	v.BindEnv("MONTHLY_REVENUE_GOAL")
	v.BindEnv("ASSISTANT_BASE_URL")
	v.BindEnv("ASSISTANT_API_KEY")
	v.BindEnv("ASSISTANT_MODEL")
	v.BindEnv("REQUEST_TIMEOUT_SEC")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to serve with. The clinical
// records provider credentials are required: every dashboard endpoint calls
// the provider, so a missing credential is a startup failure rather than a
// per-request 500.
func (c *Config) Validate() error {
	var missing []string
	if c.PMSAppID == "" {
		missing = append(missing, "PMS_APP_ID")
	}
	if c.PMSAppKey == "" {
		missing = append(missing, "PMS_APP_KEY")
	}
	if c.PMSOfficeID == "" {
		missing = append(missing, "PMS_OFFICE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.MonthlyRevenueGoal <= 0 {
		return fmt.Errorf("MONTHLY_REVENUE_GOAL must be positive, got %v", c.MonthlyRevenueGoal)
	}

	if c.IsProduction() && c.AssistantAPIKey == "" {
		return fmt.Errorf("ASSISTANT_API_KEY is required in production")
	}

	return nil
}
