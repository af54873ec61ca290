package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zeduno/paygate/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "payments-service")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", false)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9990)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 15)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 45)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Driver = GetEnv("DB_DRIVER", "pgx")
	configs.Database.Host = GetEnv("DB_HOST", "localhost")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "payments")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 20)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 5)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "localhost")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "nats://localhost:4222")

	// NSQ config
	configs.NSQ.Address = GetEnv("NSQ_ADDRESS", "")
	configs.NSQ.Topic = GetEnv("NSQ_TOPIC", "payment_status")

	// API keys
	configs.APIKey.CheckoutService = GetEnv("CHECKOUT_SERVICE_API_KEY", "")
	configs.APIKey.OrderService = GetEnv("ORDER_SERVICE_API_KEY", "")

	// Services config
	configs.Services.OrderServiceURL = GetEnv("ORDER_SERVICE_URL", "http://localhost:9980")

	// Payments config
	configs.Payments.CallbackBaseURL = GetEnv("PAYMENT_CALLBACK_BASE_URL", "")
	configs.Payments.DefaultProvider = GetEnv("PAYMENT_DEFAULT_PROVIDER", models.ProviderZed)
	configs.Payments.RoutingFile = GetEnv("GATEWAY_ROUTING_FILE", "")
	configs.Payments.GatewayTimeout = GetEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 30)
	configs.Payments.NotifyBuffer = GetEnvAsInt("NOTIFY_BUFFER", 256)
	configs.Payments.CallbackDedupeTTL = GetEnvAsInt("CALLBACK_DEDUPE_TTL_SECONDS", 86400)
	configs.Payments.ReferencePrefix = GetEnv("PAYMENT_REFERENCE_PREFIX", "BT-")
	configs.Payments.SupportedCurrencies = GetEnvAsSlice("PAYMENT_SUPPORTED_CURRENCIES",
		[]string{"KES", "UGX", "TZS", "RWF", "BIF", "CDF", "SSP"})
	configs.Payments.InitiateRateLimit = GetEnvAsInt("PAYMENT_INITIATE_RATE_LIMIT", 5)

	// Zed Business aggregator
	configs.Zed.BaseURL = GetEnv("ZED_BASE_URL", "https://api.dev.zed.business")
	configs.Zed.APIKey = GetEnv("ZED_API_KEY", "")
	configs.Zed.ExternalOrigin = GetEnv("ZED_EXTERNAL_ORIGIN", "")

	// Daraja direct API
	configs.Daraja.BaseURL = GetEnv("DARAJA_BASE_URL", "https://sandbox.safaricom.co.ke")
	configs.Daraja.ConsumerKey = GetEnv("DARAJA_CONSUMER_KEY", "")
	configs.Daraja.ConsumerSecret = GetEnv("DARAJA_CONSUMER_SECRET", "")
	configs.Daraja.ShortCode = GetEnv("DARAJA_SHORTCODE", "174379")
	configs.Daraja.PassKey = GetEnv("DARAJA_PASSKEY", "")
	configs.Daraja.Environment = GetEnv("DARAJA_ENVIRONMENT", "sandbox")

	// Midtrans
	configs.Midtrans.ServerKey = GetEnv("MIDTRANS_SERVER_KEY", "")
	configs.Midtrans.Production = GetEnvAsBool("MIDTRANS_PRODUCTION", false)

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")
	configs.Logger.Type = GetEnv("LOG_TYPE", "stdout")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsSlice reads a comma separated list, trimming blanks
func GetEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
