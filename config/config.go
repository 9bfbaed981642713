package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTKey = "defaultSecret"

// MaxInviteCodeLength matches the size of the invite code column
const MaxInviteCodeLength = 16

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver       string // postgres, mysql, sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string // file path when DBDriver is sqlite
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey         string
	JWTExpiryHours int
	SaltRound      int

	InviteCodeTTLDays int
	InviteCodeLength  int

	LoginMaxAttempts  int
	LoginBlockMinutes int

	CorsOrigins string

	ProxyHeader    string // e.g. X-Forwarded-For; empty uses the socket address
	TrustedProxies []string

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	NotifyWebhookURL string

	RedisURL             string
	StatsCacheTTLSeconds int

	CertificateBaseURL string

	SchedulerSpec      string
	ReminderWindowDays int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "internlab"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:         getEnv("JWT_SECRET_KEY", defaultJWTKey),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24*30),
		SaltRound:      getEnvInt("SALT_ROUND", 10),

		InviteCodeTTLDays: getEnvInt("INVITE_CODE_TTL_DAYS", 7),
		InviteCodeLength:  getEnvInt("INVITE_CODE_LENGTH", 6),

		LoginMaxAttempts:  getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginBlockMinutes: getEnvInt("LOGIN_BLOCK_MINUTES", 15),

		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		ProxyHeader:    getEnv("PROXY_HEADER", ""),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@internlab.demo"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "InternLab"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		RedisURL:             getEnv("REDIS_URL", ""),
		StatsCacheTTLSeconds: getEnvInt("STATS_CACHE_TTL_SECONDS", 60),

		CertificateBaseURL: strings.TrimRight(getEnv("CERTIFICATE_BASE_URL", "https://internlab.demo/verify"), "/"),

		SchedulerSpec:      getEnv("SCHEDULER_SPEC", "0 9 * * *"),
		ReminderWindowDays: getEnvInt("REMINDER_WINDOW_DAYS", 2),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.InviteCodeLength < 4 {
		log.Printf("Warning: INVITE_CODE_LENGTH %d is too short, using 6", AppConfig.InviteCodeLength)
		AppConfig.InviteCodeLength = 6
	}
	if AppConfig.InviteCodeLength > MaxInviteCodeLength {
		log.Printf("Warning: INVITE_CODE_LENGTH %d is too long, using %d", AppConfig.InviteCodeLength, MaxInviteCodeLength)
		AppConfig.InviteCodeLength = MaxInviteCodeLength
	}
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "production" || env == "prod"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
