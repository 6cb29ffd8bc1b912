package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the placeholder used when JWT_SECRET is unset. The
// legacy API refuses to sign tokens with it.
const DefaultJWTSecret = "your-secret-key"

type Config struct {
	ServerPort  string
	Environment string
	BaseURL     string

	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	// FirebaseAuthMode is "admin" (service account) or "jwks" (verify ID tokens
	// against Google's public keys only, for emulator/dev setups).
	FirebaseAuthMode string
	StorageBucket    string

	PaystackSecretKey     string
	PaystackBaseURL       string
	PaystackCallbackURL   string
	PaystackPreferredBank string
	AdUnlockAmount        int64 // kobo
	FreeListingLimit      int

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int64

	MongoURI  string
	MongoDB   string
	// LegacyAPI mounts /api when MONGO_URI is also set.
	LegacyAPI bool

	JWTSecret string
	JWTExpiry int64

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		FirebaseAuthMode:           strings.ToLower(getEnv("FIREBASE_AUTH_MODE", "admin")),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		PaystackSecretKey:     getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:       getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackCallbackURL:   getEnv("PAYSTACK_CALLBACK_URL", ""),
		PaystackPreferredBank: getEnv("PAYSTACK_PREFERRED_BANK", "wema-bank"),
		AdUnlockAmount:        getEnvAsInt64("AD_UNLOCK_AMOUNT", 200000), // NGN 2,000
		FreeListingLimit:      int(getEnvAsInt64("FREE_LISTING_LIMIT", 1)),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         int(getEnvAsInt64("REDIS_DB", 0)),
		CacheTTLSeconds: getEnvAsInt64("CACHE_TTL_SECONDS", 300),

		MongoURI:  getEnv("MONGO_URI", ""),
		MongoDB:   getEnv("MONGO_DB", "roomlink"),
		LegacyAPI: getEnvAsBool("LEGACY_API_ENABLED", true),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry: getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     int(getEnvAsInt64("SMTP_PORT", 587)),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "RoomLink <no-reply@roomlink.app>"),
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LegacyJWTConfigured reports whether JWT_SECRET holds a real signing key.
func (c *Config) LegacyJWTConfigured() bool {
	secret := strings.TrimSpace(c.JWTSecret)
	return secret != "" && secret != DefaultJWTSecret
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
