package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the development-only fallback signing secret. Prod
// mode refuses to start without an explicit JWT_SECRET.
const DevJWTSecret = "tunehub-dev-secret-do-not-use-in-prod"

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Storage  StorageConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret string
}

// CookieConfig holds session cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// StorageConfig holds file storage locations
type StorageConfig struct {
	Root       string // uploaded media files
	CatalogDB  string // legacy db.json catalog
	ParamsFile string // presentation parameters
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	jwtConfig, err := loadJWTConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(),
		JWT:      jwtConfig,
		Cookie:   loadCookieConfig(appMode),
		Storage:  loadStorageConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASS", ""),
		DBName:   getEnv("DB_NAME", "tunehub"),
	}
}

// loadJWTConfig loads the signing secret. A missing secret is a hard
// startup failure in prod: silently signing sessions with a known
// default would let anyone mint tokens.
func loadJWTConfig(mode string) (JWTConfig, error) {
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		if mode == "prod" {
			return JWTConfig{}, fmt.Errorf("JWT_SECRET is required in prod mode")
		}
		log.Println("⚠️ JWT_SECRET not set, using insecure development default")
		secret = DevJWTSecret
	}
	return JWTConfig{Secret: secret}, nil
}

// loadCookieConfig loads session cookie config
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv("COOKIE_SECURE", ""))
	if getEnv("COOKIE_SECURE", "") == "" {
		secure = mode == "prod"
	}

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "strict"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadStorageConfig loads file storage locations
func loadStorageConfig() StorageConfig {
	root := getEnv("STORAGE_PATH", "storage")

	return StorageConfig{
		Root:       root,
		CatalogDB:  getEnv("CATALOG_DB_PATH", filepath.Join(filepath.Dir(root), "db.json")),
		ParamsFile: getEnv("PRESENTATION_PARAMS_PATH", filepath.Join("data", "presentation_params.json")),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://music.tunehub.app"
	}
	return origins
}
