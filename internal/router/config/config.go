package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string `mapstructure:"POSTGRES_CONN"`
	PostgresUser  string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass  string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost  string `mapstructure:"POSTGRES_HOST"`
	PostgresPort  string `mapstructure:"POSTGRES_PORT"`
	PostgresDB    string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripePriceMonthly  string `mapstructure:"STRIPE_PRICE_MONTHLY"`
	StripePriceSixMonth string `mapstructure:"STRIPE_PRICE_SIXMONTHS"`
	StripePriceMessages string `mapstructure:"STRIPE_PRICE_MESSAGES"`

	AppStoreSharedSecret string `mapstructure:"APPSTORE_SHARED_SECRET"`

	CheckoutSuccessURL    string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL     string `mapstructure:"CHECKOUT_CANCEL_URL"`
	SubscriptionManageURL string `mapstructure:"SUBSCRIPTION_MANAGE_URL"`
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}

// Validate проверяет, что все обязательные параметры заданы.
// Сервис не должен стартовать с частично настроенными платежами.
func (cfg Config) Validate() error {
	required := map[string]string{
		"SERVER_ADDRESS":        cfg.ServerAddress,
		"POSTGRES_CONN":         cfg.PostgresConn,
		"MIGRATION_URL":         cfg.MigrationURL,
		"STRIPE_SECRET_KEY":     cfg.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": cfg.StripeWebhookSecret,
		"STRIPE_PRICE_MONTHLY":  cfg.StripePriceMonthly,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}
