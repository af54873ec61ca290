package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	NSQ      NSQConfig
	APIKey   APIKeyConfig
	Services ServicesConfig
	Payments PaymentsConfig
	Zed      ZedConfig
	Daraja   DarajaConfig
	Midtrans MidtransConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// ServicesConfig contains URLs for other services
type ServicesConfig struct {
	OrderServiceURL string
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains the optional NSQ daemon address used as a second broadcast sink
type NSQConfig struct {
	Address string
	Topic   string
}

// APIKeyConfig holds the keys used for service-to-service calls
type APIKeyConfig struct {
	CheckoutService string // key callers must present to this service
	OrderService    string // key this service presents to the order service
}

// PaymentsConfig holds engine-wide payment settings
type PaymentsConfig struct {
	CallbackBaseURL     string
	DefaultProvider     string // provider used for mobile money when no routing rule matches
	RoutingFile         string // optional YAML file with method/tenant routing
	GatewayTimeout      int    // seconds
	NotifyBuffer        int
	CallbackDedupeTTL   int // seconds
	ReferencePrefix     string
	SupportedCurrencies []string
	InitiateRateLimit   int // initiations per order per minute, 0 disables
}

// ZedConfig configures the Zed Business aggregator
type ZedConfig struct {
	BaseURL        string
	APIKey         string
	ExternalOrigin string
}

// DarajaConfig configures the Safaricom Daraja direct API
type DarajaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	Environment    string
}

// MidtransConfig configures the Midtrans card and wallet gateway
type MidtransConfig struct {
	ServerKey  string
	Production bool
}

// NewRelicConfig contains New Relic APM configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
	Type     string
}
