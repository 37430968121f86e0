package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	LogMode   string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql or sqlite
	DBDSN      string // overrides the DB_* parts when set
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	StorageDriver string // local or b2
	UploadDir     string
	B2AccountID   string
	B2AppKey      string
	B2Bucket      string

	SendgridAPIKey string
	EmailSender    string
	EmailFromName  string

	VerifyVideoURLs     bool
	VideoProbeTimeout   int // seconds
	EnrollmentCronSpec  string
	EnableEnrollmentJob bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.StorageDriver == "b2" && (AppConfig.B2AccountID == "" || AppConfig.B2AppKey == "" || AppConfig.B2Bucket == "") {
		log.Println("Warning: STORAGE_DRIVER=b2 without B2_ACCOUNT_ID, B2_APP_KEY and B2_BUCKET. Uploads will fail.")
	}
}

// FromEnv builds a Config from the current environment without touching .env files
func FromEnv() *Config {
	return &Config{
		Port:      getEnv("PORT", "3000"),
		LogMode:   getEnv("LOG_MODE", "development"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBDSN:      getEnv("DB_DSN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "courses"),
		DBPort:     getEnv("DB_PORT", "5432"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),
		B2AccountID:   getEnv("B2_ACCOUNT_ID", ""),
		B2AppKey:      getEnv("B2_APP_KEY", ""),
		B2Bucket:      getEnv("B2_BUCKET", ""),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@courses.local"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Courses Platform"),

		VerifyVideoURLs:     getEnvBool("VERIFY_VIDEO_URLS", false),
		VideoProbeTimeout:   getEnvInt("VIDEO_PROBE_TIMEOUT_SECONDS", 5),
		EnrollmentCronSpec:  getEnv("ENROLLMENT_CRON", "0 * * * *"),
		EnableEnrollmentJob: getEnvBool("ENABLE_ENROLLMENT_JOB", true),
	}
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

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}
