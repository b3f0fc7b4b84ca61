package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAccounts is the injected chart-of-accounts policy used when a create
// request carries no entry lines. The orchestrator synthesizes a canonical
// two-line pair from it; the codes are configuration, never literals in the
// transaction logic.
type DefaultAccounts struct {
	VPDebitCode        string // expense side of a voucher payable
	VPDebitDescription string
	VPCreditCode       string // accounts payable
	VPCreditDesc       string
	CVDebitCode        string // accounts payable being settled
	CVDebitDescription string
	CVCreditCode       string // disbursing bank account
	CVCreditDesc       string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	DBMaxConns     int32
	Port           string
	IsProduction   bool
	MigrationsPath string
	Defaults       DefaultAccounts
}

// LoadConfig loads configuration from environment variables and a .env file
// if one is present. Env vars win over .env values, which win over defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PGSQL_MAX_CONNS", 10)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DEFAULT_VP_DEBIT_CODE", "5000")
	viper.SetDefault("DEFAULT_VP_DEBIT_DESC", "General Expense")
	viper.SetDefault("DEFAULT_VP_CREDIT_CODE", "2000")
	viper.SetDefault("DEFAULT_VP_CREDIT_DESC", "Accounts Payable")
	viper.SetDefault("DEFAULT_CV_DEBIT_CODE", "2000")
	viper.SetDefault("DEFAULT_CV_DEBIT_DESC", "Accounts Payable")
	viper.SetDefault("DEFAULT_CV_CREDIT_CODE", "1010")
	viper.SetDefault("DEFAULT_CV_CREDIT_DESC", "Bank - Operating Account")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		DBMaxConns:     viper.GetInt32("PGSQL_MAX_CONNS"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		Defaults: DefaultAccounts{
			VPDebitCode:        viper.GetString("DEFAULT_VP_DEBIT_CODE"),
			VPDebitDescription: viper.GetString("DEFAULT_VP_DEBIT_DESC"),
			VPCreditCode:       viper.GetString("DEFAULT_VP_CREDIT_CODE"),
			VPCreditDesc:       viper.GetString("DEFAULT_VP_CREDIT_DESC"),
			CVDebitCode:        viper.GetString("DEFAULT_CV_DEBIT_CODE"),
			CVDebitDescription: viper.GetString("DEFAULT_CV_DEBIT_DESC"),
			CVCreditCode:       viper.GetString("DEFAULT_CV_CREDIT_CODE"),
			CVCreditDesc:       viper.GetString("DEFAULT_CV_CREDIT_DESC"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable is required")
	}

	return cfg, nil
}
