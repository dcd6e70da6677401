package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTAccessExpiry   time.Duration
	JWTRefreshExpiry  time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	// OTPStoreBackend selects where issued codes live: "dynamo" for shared
	// deployments, "memory" for a single instance.
	OTPStoreBackend string
	OTPTTL          time.Duration
	OTPCookieMaxAge time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPCodes     string
	PrivatePages string
	Messages     string
	Documents    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			OTPCodes:     getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
			PrivatePages: getEnv("DYNAMO_TABLE_PRIVATE_PAGES", "private_pages"),
			Messages:     getEnv("DYNAMO_TABLE_MESSAGES", "messages"),
			Documents:    getEnv("DYNAMO_TABLE_DOCUMENTS", "documents"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "medoh-page-documents"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTAccessExpiry:   time.Duration(getEnvInt("JWT_ACCESS_EXPIRY_MINUTES", 60)) * time.Minute,
		JWTRefreshExpiry:  time.Duration(getEnvInt("JWT_REFRESH_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@medoh.health"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		OTPStoreBackend: getEnv("OTP_STORE", "dynamo"),
		OTPTTL:          time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		OTPCookieMaxAge: time.Duration(getEnvInt("OTP_COOKIE_MAX_AGE_MINUTES", 5)) * time.Minute,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
