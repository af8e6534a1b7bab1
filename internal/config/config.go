package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// Tenancy
	BaseDomain        string
	DefaultTenantSlug string
	ResolverOrder     []string
	TenantQueryParam  string
	TenantFile        string

	// Event
	EventDate  string
	CheckinPIN string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Redis RedisConfig

	Email EmailConfig

	Storage StorageConfig

	Checkout CheckoutConfig

	BackupSyncURL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	CoupleName   string
}

type StorageConfig struct {
	Provider  string
	BaseURL   string
	Bucket    string
	APIKey    string
	LocalRoot string
}

type CheckoutConfig struct {
	InfinitePayHandle string
	InfinitePayAPIURL string
	StripeAPIKey      string
	RedirectURL       string
	WebhookURL        string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "celebre"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		BaseDomain:        getenv("BASE_DOMAIN", "localhost"),
		DefaultTenantSlug: getenv("DEFAULT_TENANT_SLUG", "default"),
		ResolverOrder:     parseList(getenv("TENANT_RESOLVER_ORDER", "subdomain,path,domain")),
		TenantQueryParam:  getenv("TENANT_QUERY_PARAM", "tenant"),
		TenantFile:        getenv("TENANT_FILE", ""),
		EventDate:         getenv("EVENT_DATE", ""),
		CheckinPIN:        strings.TrimSpace(getenv("CHECKIN_PIN", "")),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "celebre"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 465),
			SMTPUsername: getenv("SMTP_USER", ""),
			SMTPPassword: getenv("SMTP_PASS", ""),
			SMTPFrom:     getenv("SMTP_FROM", ""),
			CoupleName:   getenv("COUPLE_NAME", ""),
		},
		Storage: StorageConfig{
			Provider:  getenv("STORAGE_PROVIDER", "local"),
			BaseURL:   strings.TrimRight(getenv("STORAGE_BASE_URL", ""), "/"),
			Bucket:    getenv("STORAGE_BUCKET", "fotos"),
			APIKey:    getenv("STORAGE_API_KEY", ""),
			LocalRoot: getenv("STORAGE_LOCAL_ROOT", "data/storage"),
		},
		Checkout: CheckoutConfig{
			InfinitePayHandle: getenv("INFINITEPAY_HANDLE", ""),
			InfinitePayAPIURL: getenv("INFINITEPAY_API_URL", "https://api.infinitepay.io"),
			StripeAPIKey:      getenv("STRIPE_API_KEY", ""),
			RedirectURL:       getenv("CHECKOUT_REDIRECT_URL", ""),
			WebhookURL:        getenv("CHECKOUT_WEBHOOK_URL", ""),
		},
		BackupSyncURL: getenv("BACKUP_SYNC_URL", ""),
	}

	return &cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
