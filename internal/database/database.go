package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"blogfront/internal/config"
)

type DB struct {
	*sqlx.DB
}

// DataSource returns the driver name and DSN for cfg. An empty driver means
// no database is used.
func DataSource(cfg config.DB) (string, string, error) {
	switch cfg.Driver {
	case "postgres":
		return "postgres", fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DbHOST,
			cfg.DbPORT,
			cfg.DbUSER,
			cfg.DbPASSWORD,
			cfg.DbNAME,
			cfg.DbSSLMODE,
		), nil
	case "sqlite3", "sqlite":
		return "sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.DbPATH), nil
	case "":
		return "", "", nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// ConnectDB opens the view store. It returns a nil DB when persistence is
// turned off.
func ConnectDB(cfg *config.Config) (*DB, error) {
	driver, dsn, err := DataSource(cfg.DB)
	if err != nil {
		return nil, err
	}
	if driver == "" {
		log.Println("DB_DRIVER is empty, view history is kept in memory")
		return nil, nil
	}

	if driver == "postgres" {
		log.Printf("Connecting to database: host=%s, dbname=%s", cfg.DB.DbHOST, cfg.DB.DbNAME)
	} else {
		log.Printf("Opening database file: %s", cfg.DB.DbPATH)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	dbStruct := &DB{db}

	if err := dbStruct.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Printf("Warning: migrations failed: %v", err)
	}

	if err := dbStruct.HealthCheck(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	log.Printf("Connected to %s", driver)
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

func (db *DB) RunMigrations(migrationFilePath string) error {
	if _, err := os.Stat(migrationFilePath); os.IsNotExist(err) {
		return fmt.Errorf("migration file not found: %s", migrationFilePath)
	}

	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	log.Printf("Applying migrations from %s", migrationFilePath)

	_, err = db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Println("Migrations applied")
	return nil
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialised")
	}

	return db.Ping()
}

// SQLX unwraps the connection for the repositories; a nil DB yields nil.
func (db *DB) SQLX() *sqlx.DB {
	if db == nil {
		return nil
	}
	return db.DB
}
