package db

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

var DB *sql.DB

type Config struct {
	DBURL       string
	Port        string
	Environment string
}

// InitDB initializes the database connection pool.
func InitDB(ctx context.Context, dataSourceName string) error {
	var err error
	DB, err = sql.Open("postgres", dataSourceName)
	if err != nil {
		return errors.New("failed to open database connection: " + err.Error())
	}

	// Check database connection
	if err = DB.PingContext(ctx); err != nil {
		return errors.New("failed to ping database: " + err.Error())
	}

	// Configure database connection pool settings
	DB.SetMaxOpenConns(20)
	DB.SetMaxIdleConns(10)

	log.Println("Database connection initialized successfully.")
	return nil
}

// LoadConfig retrieves the server configuration from environment
// variables, reading a .env file first when one is present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("database URL (DB_URL) environment variable is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	return &Config{
		DBURL:       dbURL,
		Port:        port,
		Environment: environment,
	}, nil
}
