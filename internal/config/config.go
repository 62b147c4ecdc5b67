package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv"      // For loading .env files
	"github.com/shopspring/decimal" // Currency amounts
)

// Config holds the application configuration
type Config struct {
	AppPort        string          // Application port
	DBUser         string          // Database user
	DBPassword     string          // Database password
	DBHost         string          // Database host
	DBPort         string          // Database port
	DBName         string          // Database name
	JWTSecret      string          // JWT secret key
	RedisAddr      string          // Redis server address
	RedisPass      string          // Redis password
	RedisDB        int             // Redis database number
	DeliveryCharge decimal.Decimal // Flat delivery surcharge added to every order
	LoyaltyRate    decimal.Decimal // Fraction of the discounted subtotal credited as points
	IsProd         bool            // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:        os.Getenv("APP_PORT"),                               // Application port
		DBUser:         os.Getenv("DB_USER"),                                // Database user
		DBPassword:     os.Getenv("DB_PASSWORD"),                            // Database password
		DBHost:         os.Getenv("DB_HOST"),                                // Database host
		DBPort:         os.Getenv("DB_PORT"),                                // Database port
		DBName:         os.Getenv("DB_NAME"),                                // Database name
		JWTSecret:      os.Getenv("JWT_SECRET"),                             // JWT secret key
		RedisAddr:      os.Getenv("REDIS_ADDR"),                             // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),                             // Redis password
		RedisDB:        redisDB,                                             // Redis database number
		DeliveryCharge: envDecimal("DELIVERY_CHARGE", "60.00"),              // Delivery surcharge
		LoyaltyRate:    envDecimal("LOYALTY_POINTS_RATE", "0.01"),           // 1% of discounted subtotal
		IsProd:         os.Getenv("IS_PROD") == "true",                      // Is production environment
	}
}

// DSN builds the MySQL data source name from the database settings
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// envDecimal reads a decimal environment variable, falling back to def when
// the variable is unset or unparseable
func envDecimal(key, def string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(def)
	return d
}
